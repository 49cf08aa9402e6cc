package retriever

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/xaenox/parcel-bot/internal/models"
	"go.uber.org/zap"
)

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

type fakeIndex struct {
	results    []Result
	err        error
	collection string
	limit      uint64
}

func (f *fakeIndex) Search(ctx context.Context, collection string, vector []float32, limit uint64) ([]Result, error) {
	f.collection = collection
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func TestSearchEmptyResults(t *testing.T) {
	index := &fakeIndex{}
	r := New(index, &fakeEmbedder{}, zap.NewNop())

	resp := r.Search(context.Background(), "lost package?", models.CollectionLostPackagePolicy, DefaultLimit)
	if resp.Answer != "No relevant company policies found." {
		t.Errorf("unexpected answer: %q", resp.Answer)
	}
	if index.collection != "lost_package_policy" {
		t.Errorf("searched wrong collection: %q", index.collection)
	}
	if index.limit != 3 {
		t.Errorf("expected limit 3, got %d", index.limit)
	}
}

func TestSearchTakesTopTwo(t *testing.T) {
	index := &fakeIndex{}
	for i := 1; i <= 5; i++ {
		index.results = append(index.results, Result{Score: 1.0 / float32(i), Text: fmt.Sprintf("passage %d", i)})
	}
	r := New(index, &fakeEmbedder{}, zap.NewNop())

	resp := r.Search(context.Background(), "shipping prices", models.CollectionShippingInformation, DefaultLimit)
	want := "passage 1\n\npassage 2"
	if resp.Answer != want {
		t.Errorf("expected %q, got %q", want, resp.Answer)
	}
}

func TestSearchIndexError(t *testing.T) {
	index := &fakeIndex{err: errors.New("connection refused")}
	r := New(index, &fakeEmbedder{}, zap.NewNop())

	resp := r.Search(context.Background(), "anything", models.CollectionShippingInformation, DefaultLimit)
	if resp.Answer != RetrievalErrorAnswer {
		t.Errorf("expected error payload, got %q", resp.Answer)
	}
}

func TestSearchEmbedError(t *testing.T) {
	r := New(&fakeIndex{}, &fakeEmbedder{err: errors.New("rate limited")}, zap.NewNop())

	resp := r.Search(context.Background(), "anything", models.CollectionLostPackagePolicy, DefaultLimit)
	if resp.Answer != RetrievalErrorAnswer {
		t.Errorf("expected error payload, got %q", resp.Answer)
	}
}

func TestSearchMissingText(t *testing.T) {
	index := &fakeIndex{results: []Result{{Score: 0.9}}}
	r := New(index, &fakeEmbedder{}, zap.NewNop())

	resp := r.Search(context.Background(), "anything", models.CollectionLostPackagePolicy, DefaultLimit)
	if resp.Answer != "No text available" {
		t.Errorf("expected fallback text, got %q", resp.Answer)
	}
}

//go:build !integration

package memory

import (
	"context"
	"sync"
	"testing"

	"catalog-broadcast-bot/internal/domain/model"
	"catalog-broadcast-bot/internal/domain/ports/repository"
)

func TestPendingImageStore(t *testing.T) {
	ctx := context.Background()
	s := NewPendingImageStore()

	t.Run("should overwrite on second photo", func(t *testing.T) {
		_ = s.Set(ctx, 1, "first")
		_ = s.Set(ctx, 1, "second")
		got, ok, _ := s.Get(ctx, 1)
		if !ok || got != "second" {
			t.Errorf("wanted second, got %q (ok=%v)", got, ok)
		}
	})

	t.Run("should keep operators isolated", func(t *testing.T) {
		_ = s.Set(ctx, 2, "other")
		_ = s.Clear(ctx, 1)
		if _, ok, _ := s.Get(ctx, 1); ok {
			t.Error("operator 1 should have no pending image")
		}
		if got, ok, _ := s.Get(ctx, 2); !ok || got != "other" {
			t.Errorf("operator 2 lost its image: %q", got)
		}
	})
}

func TestAwaitingDecisionStore(t *testing.T) {
	ctx := context.Background()
	s := NewAwaitingDecisionStore()

	replaced, _ := s.Put(ctx, 7, &model.Product{Name: "A"})
	if replaced {
		t.Error("first put should not report a replacement")
	}
	replaced, _ = s.Put(ctx, 7, &model.Product{Name: "B"})
	if !replaced {
		t.Error("second put should report a replacement")
	}

	p, ok, _ := s.Take(ctx, 7)
	if !ok || p.Name != "B" {
		t.Fatalf("expected B, got %+v (ok=%v)", p, ok)
	}
	if _, ok, _ := s.Take(ctx, 7); ok {
		t.Error("entry should be gone after take")
	}
}

func TestAwaitingDecisionStore_TakeOnceUnderContention(t *testing.T) {
	ctx := context.Background()
	s := NewAwaitingDecisionStore()
	_, _ = s.Put(ctx, 1, &model.Product{Name: "X"})

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok, _ := s.Take(ctx, 1); ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Errorf("expected exactly one successful take, got %d", wins)
	}
}

func TestEditSessionStore(t *testing.T) {
	ctx := context.Background()
	s := NewEditSessionStore()
	_ = s.Open(ctx, repository.EditSession{ChatID: 5, PromptMessageID: 42, ProductID: "p1"})

	if _, ok, _ := s.Get(ctx, 5, 41); ok {
		t.Error("unexpected session for another message")
	}
	sess, ok, _ := s.Get(ctx, 5, 42)
	if !ok || sess.ProductID != "p1" {
		t.Fatalf("expected session for p1, got %+v", sess)
	}
	_ = s.Close(ctx, 5, 42)
	if _, ok, _ := s.Get(ctx, 5, 42); ok {
		t.Error("session should be closed")
	}
}

func TestSubscriberRegistry(t *testing.T) {
	ctx := context.Background()
	r := NewSubscriberRegistry()

	if added, _ := r.Register(ctx, 10, model.ChatPrivate); !added {
		t.Error("first register should add")
	}
	if added, _ := r.Register(ctx, 10, model.ChatPrivate); added {
		t.Error("register must be idempotent")
	}
	_, _ = r.Register(ctx, 3, model.ChatPrivate)
	_, _ = r.Register(ctx, -100, model.ChatGroup)

	n, _ := r.Count(ctx, model.ChatPrivate)
	if n != 2 {
		t.Errorf("expected 2 private subscribers, got %d", n)
	}
	ids, _ := r.List(ctx, model.ChatPrivate)
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 10 {
		t.Errorf("unexpected private list %v", ids)
	}
	groups, _ := r.List(ctx, model.ChatGroup)
	if len(groups) != 1 || groups[0] != -100 {
		t.Errorf("unexpected group list %v", groups)
	}
}

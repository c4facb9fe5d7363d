package memory

import (
	"context"
	"testing"

	"lecture-quiz/internal/domain"
	"lecture-quiz/internal/session"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()
	sess, err := session.New(sampleQuiz(), nil, session.TransportFunc(nil))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	store.Register("s1", sess)
	if got, ok := store.Get("s1"); !ok || got != sess {
		t.Fatalf("expected session present")
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", store.Len())
	}

	store.Remove("s1")
	if _, ok := store.Get("s1"); ok {
		t.Fatalf("expected session removed")
	}
}

func TestResultStoreCompletedQuizIDs(t *testing.T) {
	store := NewResultStore()
	ctx := context.Background()

	ids, err := store.CompletedQuizIDs(ctx)
	if err != nil || len(ids) != 0 {
		t.Fatalf("expected no completed quizzes, got %v (%v)", ids, err)
	}

	_ = store.Save(ctx, sampleResult("pcv5_dlt"))
	_ = store.Save(ctx, sampleResult("pcv5_dlt"))
	ids, _ = store.CompletedQuizIDs(ctx)
	if _, ok := ids["pcv5_dlt"]; !ok || len(ids) != 1 {
		t.Fatalf("expected pcv5_dlt completed, got %v", ids)
	}
	if len(store.Results()) != 2 {
		t.Fatalf("expected both results kept, got %d", len(store.Results()))
	}
}

func sampleResult(quizID string) domain.StoredResult {
	return domain.StoredResult{ID: "r-" + quizID, QuizID: quizID, Score: 1, Total: 2, Percentage: 50}
}

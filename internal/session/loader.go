package session

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"spendpal/internal/domain/request"
	"spendpal/internal/shared/workerpool"
	"spendpal/internal/store"
)

var loadTracer = otel.Tracer("spendpal/session")

type fetchFunc func(ctx context.Context) (store.Action, error)

// load fetches every collection concurrently and hydrates the store at gen.
// A failed fetch is logged and leaves its collection empty.
func (s *Session) load(ctx context.Context, gen uint64) {
	ctx, span := loadTracer.Start(ctx, "session.load",
		trace.WithAttributes(attribute.Int64("store.generation", int64(gen))),
	)
	defer span.End()

	jobs := s.fetchJobs(gen)
	workers := s.loadWorkers
	if workers <= 0 || workers > len(jobs) {
		workers = len(jobs)
	}
	pool := workerpool.New(ctx, workers, len(jobs), s.loadTimeout)
	pool.Start()
	pool.SubmitBatch(jobs)
	pool.Shutdown()
}

func (s *Session) fetchJobs(gen uint64) []workerpool.Job {
	fetches := []struct {
		name string
		fn   fetchFunc
	}{
		{"partners", s.fetchPartners},
		{"requests", s.fetchRequests},
		{"balance", s.fetchBalance},
		{"transactions", s.fetchTransactions},
		{"conversations", s.fetchConversations},
		{"notifications", s.fetchNotifications},
		{"feed", s.fetchFeed},
	}

	jobs := make([]workerpool.Job, 0, len(fetches))
	for _, f := range fetches {
		jobs = append(jobs, workerpool.JobFunc{
			Name: "load " + f.name,
			Fn: func(ctx context.Context) error {
				action, err := f.fn(ctx)
				if err != nil {
					return fmt.Errorf("failed to load %s: %w", f.name, err)
				}
				if err := s.store.DispatchAt(ctx, gen, action); err != nil {
					if errors.Is(err, store.ErrStaleGeneration) {
						log.Printf("Discarding %s loaded for an ended session", f.name)
						return nil
					}
					return err
				}
				return nil
			},
		})
	}
	return jobs
}

func (s *Session) fetchPartners(ctx context.Context) (store.Action, error) {
	partners, err := s.api.ListPartners(ctx)
	if err != nil {
		return nil, err
	}
	return store.HydratePartners{Partners: partners}, nil
}

func (s *Session) fetchRequests(ctx context.Context) (store.Action, error) {
	mine, err := s.api.ListMyRequests(ctx)
	if err != nil {
		return nil, err
	}
	toApprove, err := s.api.ListRequestsToApprove(ctx)
	if err != nil {
		return nil, err
	}
	return store.HydrateRequests{Requests: mergeRequests(mine, toApprove)}, nil
}

func (s *Session) fetchBalance(ctx context.Context) (store.Action, error) {
	balance, err := s.api.GetBalance(ctx)
	if err != nil {
		return nil, err
	}
	return store.HydrateBalance{Balance: balance}, nil
}

func (s *Session) fetchTransactions(ctx context.Context) (store.Action, error) {
	txs, err := s.api.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return store.HydrateTransactions{Transactions: txs}, nil
}

func (s *Session) fetchConversations(ctx context.Context) (store.Action, error) {
	convs, err := s.api.ListConversations(ctx)
	if err != nil {
		return nil, err
	}
	return store.HydrateConversations{Conversations: convs}, nil
}

func (s *Session) fetchNotifications(ctx context.Context) (store.Action, error) {
	notes, err := s.api.ListNotifications(ctx)
	if err != nil {
		return nil, err
	}
	return store.HydrateNotifications{Notifications: notes}, nil
}

func (s *Session) fetchFeed(ctx context.Context) (store.Action, error) {
	items, err := s.api.ListFeed(ctx)
	if err != nil {
		return nil, err
	}
	return store.HydrateFeed{Items: items}, nil
}

// mergeRequests combines the user's own requests with those awaiting their
// decision. Own requests are marked as submitted by Self and the others list
// Self among their approvers, since the backend names the user by their real
// name. An id seen twice keeps its first occurrence.
func mergeRequests(mine, toApprove []request.Request) []request.Request {
	out := make([]request.Request, 0, len(mine)+len(toApprove))
	seen := make(map[string]struct{}, len(mine)+len(toApprove))
	for _, r := range mine {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		r.SubmittedBy = request.Self
		out = append(out, r)
	}
	for _, r := range toApprove {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		if !r.HasApprover(request.Self) {
			approvers := make([]string, 0, len(r.Approvers)+1)
			approvers = append(approvers, r.Approvers...)
			r.Approvers = append(approvers, request.Self)
		}
		out = append(out, r)
	}
	return out
}

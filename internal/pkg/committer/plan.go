// Package committer collects Spanner mutations into a plan and applies it.
//
// Repositories and writers never call client.Apply themselves; they return
// mutations, the caller gathers them into a Plan and hands the plan to a
// Committer:
//
//	plan := committer.NewPlan()
//	plan.Add(brands.InsertMut(&brand))
//	plan.AddMultiple(productMuts)
//	err := comm.Apply(ctx, plan)
//
// A plan that fits in one batch is committed atomically. Larger plans are
// split into batches of at most MaxBatchSize mutations, each committed in its
// own transaction, in the order the mutations were added.
package committer

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
)

// MaxBatchSize bounds the number of mutations sent in one commit.
const MaxBatchSize = 500

// Plan is an ordered list of Spanner mutations.
type Plan struct {
	mutations []*spanner.Mutation
}

// NewPlan creates a new empty Plan.
func NewPlan() *Plan {
	return &Plan{
		mutations: make([]*spanner.Mutation, 0),
	}
}

// Add adds a mutation to the plan.
// Nil mutations are silently ignored.
func (p *Plan) Add(mut *spanner.Mutation) {
	if mut != nil {
		p.mutations = append(p.mutations, mut)
	}
}

// AddMultiple adds multiple mutations to the plan.
func (p *Plan) AddMultiple(muts []*spanner.Mutation) {
	for _, mut := range muts {
		p.Add(mut)
	}
}

// Mutations returns all collected mutations.
func (p *Plan) Mutations() []*spanner.Mutation {
	return p.mutations
}

// IsEmpty returns true if the plan has no mutations.
func (p *Plan) IsEmpty() bool {
	return len(p.mutations) == 0
}

// Count returns the number of mutations in the plan.
func (p *Plan) Count() int {
	return len(p.mutations)
}

// Batches splits the plan into consecutive chunks of at most size mutations.
func (p *Plan) Batches(size int) [][]*spanner.Mutation {
	if size <= 0 {
		size = MaxBatchSize
	}
	var batches [][]*spanner.Mutation
	for start := 0; start < len(p.mutations); start += size {
		end := start + size
		if end > len(p.mutations) {
			end = len(p.mutations)
		}
		batches = append(batches, p.mutations[start:end])
	}
	return batches
}

// applier is the part of *spanner.Client a Committer needs.
type applier interface {
	Apply(ctx context.Context, ms []*spanner.Mutation, opts ...spanner.ApplyOption) (time.Time, error)
}

// Committer executes Plans against Spanner.
type Committer struct {
	client    applier
	batchSize int
}

// NewCommitter creates a new Committer.
func NewCommitter(client *spanner.Client) *Committer {
	return &Committer{client: client, batchSize: MaxBatchSize}
}

// Apply commits the plan batch by batch. It stops at the first failing batch;
// batches committed before it stay committed.
func (c *Committer) Apply(ctx context.Context, plan *Plan) error {
	if plan.IsEmpty() {
		return nil
	}

	for i, batch := range plan.Batches(c.batchSize) {
		if _, err := c.client.Apply(ctx, batch); err != nil {
			return fmt.Errorf("failed to apply commit plan batch %d: %w", i, err)
		}
	}

	return nil
}

package board

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/taskops/taskboard/pkg/domain/model"
	"github.com/taskops/taskboard/pkg/domain/types"
)

// Mutate applies a partial update optimistically: the mirror reflects
// the patch before the remote call is issued, and is restored to the
// exact pre-image when the call fails. On success nothing further
// happens locally; the next reconciliation load adopts the server's
// truth, which is idempotent over the optimistic value.
//
// Concurrent mutations to the same task are not serialized or merged;
// the last remote write wins and the next full load reconciles.
func (c *Cache) Mutate(ctx context.Context, id types.TaskID, patch model.TaskPatch) error {
	c.mu.Lock()
	current, ok := c.tasks[id]
	if !ok {
		c.mu.Unlock()
		return goerr.Wrap(ErrTaskNotFound, "task not found",
			goerr.V("id", id), goerr.V("workspace_id", c.workspaceID))
	}

	preImage := current.Clone()
	optimistic := current.Clone()
	patch.Apply(optimistic)
	optimistic.UpdatedAt = time.Now().UTC()
	c.tasks[id] = optimistic
	c.mu.Unlock()
	c.fireChanged()

	if _, err := c.repo.Task().Update(ctx, c.workspaceID, id, patch); err != nil {
		c.mu.Lock()
		// Restore only if the optimistic value is still in place; a
		// reconciliation load in between already holds server truth.
		if cur, ok := c.tasks[id]; ok && cur == optimistic {
			c.tasks[id] = preImage
		}
		c.mu.Unlock()
		c.fireChanged()
		return goerr.Wrap(err, "failed to update task",
			goerr.V("id", id), goerr.V("workspace_id", c.workspaceID))
	}

	return nil
}

// Create inserts a locally-synthesized placeholder for instant
// feedback, then issues the remote insert. On success the placeholder
// is swapped for the authoritative record; on failure it is removed.
// Placeholders carry no remote-recognized ID, so any full reload drops
// them regardless.
func (c *Cache) Create(ctx context.Context, task *model.Task) (*model.Task, error) {
	if err := task.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	placeholder := task.Clone()
	placeholder.ID = types.NewPlaceholderTaskID()
	placeholder.WorkspaceID = c.workspaceID
	placeholder.CreatedAt = now
	placeholder.UpdatedAt = now

	c.mu.Lock()
	c.tasks[placeholder.ID] = placeholder
	c.order = append(c.order, placeholder.ID)
	c.mu.Unlock()
	c.fireChanged()

	created, err := c.repo.Task().Create(ctx, c.workspaceID, task)
	if err != nil {
		c.removeLocal(placeholder.ID)
		c.fireChanged()
		return nil, goerr.Wrap(err, "failed to create task",
			goerr.V("workspace_id", c.workspaceID))
	}

	c.mu.Lock()
	if _, ok := c.tasks[placeholder.ID]; ok {
		delete(c.tasks, placeholder.ID)
		c.tasks[created.ID] = created.Clone()
		for i, id := range c.order {
			if id == placeholder.ID {
				c.order[i] = created.ID
				break
			}
		}
	}
	c.mu.Unlock()
	c.fireChanged()

	return created, nil
}

// Delete removes the task from the mirror immediately and reinserts the
// removed record when the remote delete fails.
func (c *Cache) Delete(ctx context.Context, id types.TaskID) error {
	c.mu.Lock()
	removed, ok := c.tasks[id]
	if !ok {
		c.mu.Unlock()
		return goerr.Wrap(ErrTaskNotFound, "task not found",
			goerr.V("id", id), goerr.V("workspace_id", c.workspaceID))
	}
	removedAt := -1
	for i, oid := range c.order {
		if oid == id {
			removedAt = i
			break
		}
	}
	delete(c.tasks, id)
	if removedAt >= 0 {
		c.order = append(c.order[:removedAt], c.order[removedAt+1:]...)
	}
	c.mu.Unlock()
	c.fireChanged()

	if err := c.repo.Task().Delete(ctx, c.workspaceID, id); err != nil {
		c.mu.Lock()
		if _, exists := c.tasks[id]; !exists {
			c.tasks[id] = removed
			if removedAt >= 0 && removedAt <= len(c.order) {
				c.order = append(c.order[:removedAt],
					append([]types.TaskID{id}, c.order[removedAt:]...)...)
			} else {
				c.order = append(c.order, id)
			}
		}
		c.mu.Unlock()
		c.fireChanged()
		return goerr.Wrap(err, "failed to delete task",
			goerr.V("id", id), goerr.V("workspace_id", c.workspaceID))
	}

	return nil
}

func (c *Cache) removeLocal(id types.TaskID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.tasks, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

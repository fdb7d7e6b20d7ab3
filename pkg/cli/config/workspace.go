package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/taskops/taskboard/pkg/domain/model"
	"github.com/taskops/taskboard/pkg/domain/types"
)

// WorkspaceConfig represents the workspace configuration file
type WorkspaceConfig struct {
	Workspaces []WorkspaceEntry `toml:"workspace"`
}

// WorkspaceEntry represents one workspace and its member roster
type WorkspaceEntry struct {
	ID      string   `toml:"id"`
	Name    string   `toml:"name"`
	Members []Member `toml:"member"`
}

// Member represents a workspace member
type Member struct {
	ID         string `toml:"id"`
	Name       string `toml:"name"`
	Email      string `toml:"email"`
	Department string `toml:"department"`
	Role       string `toml:"role"`
}

// Validate checks if the Member is valid
func (m *Member) Validate() error {
	if m.ID == "" {
		return goerr.New("member ID is required")
	}
	if m.Name == "" {
		return goerr.New("member name is required", goerr.V("id", m.ID))
	}
	return nil
}

// Validate checks if the WorkspaceEntry is valid
func (w *WorkspaceEntry) Validate() error {
	if w.ID == "" {
		return goerr.New("workspace ID is required")
	}
	if w.Name == "" {
		return goerr.New("workspace name is required", goerr.V("id", w.ID))
	}

	memberIDs := make(map[string]bool)
	for _, m := range w.Members {
		if err := m.Validate(); err != nil {
			return goerr.Wrap(err, "invalid member", goerr.V("workspace_id", w.ID))
		}
		if memberIDs[m.ID] {
			return goerr.New("duplicate member ID",
				goerr.V("workspace_id", w.ID), goerr.V("member_id", m.ID))
		}
		memberIDs[m.ID] = true
	}
	return nil
}

// Validate checks if the WorkspaceConfig is valid
func (c *WorkspaceConfig) Validate() error {
	if len(c.Workspaces) == 0 {
		return goerr.New("at least one workspace is required")
	}

	workspaceIDs := make(map[string]bool)
	for _, w := range c.Workspaces {
		if err := w.Validate(); err != nil {
			return goerr.Wrap(err, "invalid workspace")
		}
		if workspaceIDs[w.ID] {
			return goerr.New("duplicate workspace ID", goerr.V("id", w.ID))
		}
		workspaceIDs[w.ID] = true
	}
	return nil
}

// LoadWorkspaceConfig loads the workspace configuration from a TOML file
func LoadWorkspaceConfig(path string) (*WorkspaceConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	var config WorkspaceConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V("path", path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V("path", path))
	}

	return &config, nil
}

// ToRegistry converts the configuration to a workspace registry
func (c *WorkspaceConfig) ToRegistry() *model.WorkspaceRegistry {
	registry := model.NewWorkspaceRegistry()
	for _, w := range c.Workspaces {
		members := make([]*model.User, 0, len(w.Members))
		for _, m := range w.Members {
			members = append(members, &model.User{
				ID:         types.UserID(m.ID),
				Name:       m.Name,
				Email:      m.Email,
				Department: m.Department,
				Role:       m.Role,
			})
		}
		registry.Register(&model.WorkspaceEntry{
			Workspace: model.Workspace{
				ID:   types.WorkspaceID(w.ID),
				Name: w.Name,
			},
			Members: members,
		})
	}
	return registry
}

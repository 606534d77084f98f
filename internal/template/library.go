// Package template implements the Task Template library and its trigger
// scheduling (SPEC_FULL.md §4.10), generalized from the teacher's
// domain.Schedule + internal/scheduler package: a Schedule fires a Flow Run,
// a TaskTemplate's trigger fires create_task + submit_task instead.
package template

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/domain"
)

// Library is a name-keyed, concurrency-safe collection of TaskTemplates.
type Library struct {
	mu        sync.RWMutex
	templates map[string]*domain.TaskTemplate
}

// NewLibrary constructs an empty Library.
func NewLibrary() *Library {
	return &Library{templates: make(map[string]*domain.TaskTemplate)}
}

// Register adds or replaces a template under its own Name.
func (l *Library) Register(t *domain.TaskTemplate) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.templates[t.Name] = t
}

// Get returns the template registered under name.
func (l *Library) Get(name string) (*domain.TaskTemplate, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, ok := l.templates[name]
	return t, ok
}

// Names returns every registered template name, in no particular order.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.templates))
	for name := range l.templates {
		out = append(out, name)
	}
	return out
}

// List returns every registered template.
func (l *Library) List() []*domain.TaskTemplate {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*domain.TaskTemplate, 0, len(l.templates))
	for _, t := range l.templates {
		out = append(out, t)
	}
	return out
}

// Filter returns every registered template for which pred returns true, e.g.
// filtering by tag.
func (l *Library) Filter(pred func(*domain.TaskTemplate) bool) []*domain.TaskTemplate {
	var out []*domain.TaskTemplate
	for _, t := range l.List() {
		if pred(t) {
			out = append(out, t)
		}
	}
	return out
}

// CreateTaskOptions lets a caller override a template's defaults for a
// single created task (§4.10).
type CreateTaskOptions struct {
	TaskType *domain.TaskType
	Priority *domain.Priority
}

var placeholderPattern = regexp.MustCompile(`\$\{(\w+)\}`)

// CreateTask implements §4.10's create_task: substitutes ${var} placeholders
// in the template's description (variables override the template's own
// defaults), fills metadata from the template's metadata_template, and
// attaches template_name/template_variables to the resulting Task.
func (l *Library) CreateTask(name, title string, variables map[string]any, opts CreateTaskOptions) (*domain.Task, error) {
	tmpl, ok := l.Get(name)
	if !ok {
		return nil, &ErrTemplateNotFound{Name: name}
	}

	merged := make(map[string]any, len(tmpl.DefaultVariables)+len(variables))
	for k, v := range tmpl.DefaultVariables {
		merged[k] = v
	}
	for k, v := range variables {
		merged[k] = v
	}

	description := substitute(tmpl.Description, merged)

	taskType := tmpl.DefaultTaskType
	if opts.TaskType != nil {
		taskType = *opts.TaskType
	}
	priority := tmpl.DefaultPriority
	if opts.Priority != nil {
		priority = *opts.Priority
	}

	task := domain.NewTask(title, description, taskType, priority)
	if tmpl.RetryConfig != nil {
		task.RetryConfig = *tmpl.RetryConfig
	}
	for k, v := range tmpl.MetadataTemplate {
		task.Metadata[k] = v
	}
	task.Metadata["template_name"] = name
	task.Metadata["template_variables"] = merged

	return task, nil
}

func substitute(text string, vars map[string]any) string {
	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		key := match[2 : len(match)-1]
		if v, ok := vars[key]; ok {
			return fmt.Sprintf("%v", v)
		}
		return match
	})
}

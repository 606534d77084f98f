package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/domain"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/registry"
)

// dispatchStep implements §4.9.1's per-type dispatch, generalized from the
// teacher's internal/steps.Step interface (one Execute method per concrete
// step type) into a single switch driven by domain.StepType.
func (e *Engine) dispatchStep(ctx context.Context, w *domain.Workflow, step *domain.WorkflowStep) (map[string]any, error) {
	if step.Condition != "" {
		ok, err := EvaluateCondition(step.Condition, w.Variables)
		if err != nil {
			return nil, err
		}
		if !ok {
			return map[string]any{"success": true, "skipped": true}, nil
		}
	}

	switch step.Type {
	case domain.StepTypeTask:
		return e.dispatchTaskStep(ctx, step)
	case domain.StepTypeAgentAction:
		return e.dispatchAgentActionStep(ctx, step)
	case domain.StepTypeConversation:
		return e.dispatchConversationStep(ctx, step)
	case domain.StepTypeCondition:
		return e.dispatchConditionStep(w, step)
	case domain.StepTypeParallel:
		return e.dispatchParallelStep(ctx, w, step)
	case domain.StepTypeLoop:
		return e.dispatchLoopStep(ctx, w, step)
	case domain.StepTypeWait:
		return e.dispatchWaitStep(ctx, step)
	case domain.StepTypeApproval:
		return e.dispatchApprovalStep(ctx, step)
	default:
		return nil, fmt.Errorf("unknown step type %q", step.Type)
	}
}

func (e *Engine) dispatchTaskStep(ctx context.Context, step *domain.WorkflowStep) (map[string]any, error) {
	agentName := configString(step.Config, "agent")
	if agentName == "" {
		return map[string]any{"success": true, "content": nil, "agent": nil, "artifacts": nil}, nil
	}

	agent, ok := e.agents.Get(agentName)
	if !ok {
		return map[string]any{"success": false, "error": "agent not found"}, nil
	}

	taskType := domain.TaskType(configString(step.Config, "task_type"))
	description := configString(step.Config, "description")
	task := domain.NewTask(step.Name, description, taskType, domain.PriorityMedium)

	resp, err := agent.HandleTask(ctx, task)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"success":   resp.Success,
		"content":   resp.Output,
		"agent":     agentName,
		"artifacts": resp.Artifacts,
	}, nil
}

func (e *Engine) dispatchAgentActionStep(ctx context.Context, step *domain.WorkflowStep) (map[string]any, error) {
	agentName := configString(step.Config, "agent")
	action := configString(step.Config, "action")

	agent, ok := e.agents.Get(agentName)
	if !ok {
		return map[string]any{"success": false, "error": "agent not found"}, nil
	}

	_, err := agent.ProcessMessage(ctx, registry.Message{
		Sender:    "workflow:" + step.Name,
		Recipient: agentName,
		Content:   action,
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"success": true, "agent": agentName, "action": action}, nil
}

func (e *Engine) dispatchConversationStep(ctx context.Context, step *domain.WorkflowStep) (map[string]any, error) {
	topic := configString(step.Config, "topic")
	participants := make([]string, 0)
	for _, v := range configSlice(step.Config, "participants") {
		if s, ok := v.(string); ok {
			participants = append(participants, s)
		}
	}
	sender := configString(step.Config, "sender")
	content := configString(step.Config, "message")

	c := e.conversations.Create(topic, participants, domain.ConversationModeBroadcast, nil)
	responses, err := e.conversations.Broadcast(ctx, c.ID, sender, content)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"success":      true,
		"topic":        topic,
		"participants": participants,
		"turns":        len(responses),
	}, nil
}

func (e *Engine) dispatchConditionStep(w *domain.Workflow, step *domain.WorkflowStep) (map[string]any, error) {
	expr := configString(step.Config, "expression")
	result, err := EvaluateCondition(expr, w.Variables)
	if err != nil {
		return nil, err
	}
	return map[string]any{"success": true, "condition": expr, "result": result}, nil
}

// dispatchParallelStep launches every inner sub-step descriptor concurrently
// via the same gather-with-exceptions primitive as the main loop (§4.9.1).
// Sub-steps are ad-hoc descriptors, not added to the workflow's own Steps.
func (e *Engine) dispatchParallelStep(ctx context.Context, w *domain.Workflow, step *domain.WorkflowStep) (map[string]any, error) {
	descriptors := configSlice(step.Config, "steps")
	subSteps := make([]*domain.WorkflowStep, 0, len(descriptors))
	for i, d := range descriptors {
		m, ok := d.(map[string]any)
		if !ok {
			continue
		}
		subSteps = append(subSteps, decodeStepDescriptor(fmt.Sprintf("%s.%d", step.ID, i), m))
	}

	var wg sync.WaitGroup
	outcomes := make([]error, len(subSteps))
	for i, sub := range subSteps {
		wg.Add(1)
		go func(i int, sub *domain.WorkflowStep) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					outcomes[i] = fmt.Errorf("sub-step panicked: %v", r)
				}
			}()
			_, err := e.dispatchStep(ctx, w, sub)
			outcomes[i] = err
		}(i, sub)
	}
	wg.Wait()

	for _, err := range outcomes {
		if err != nil {
			return map[string]any{"success": false, "sub_steps_count": len(subSteps), "error": err.Error()}, nil
		}
	}
	return map[string]any{"success": true, "sub_steps_count": len(subSteps)}, nil
}

// dispatchLoopStep re-executes an inner step descriptor against successive
// items of a configured collection, or up to a configured iteration count,
// stopping at exhaustion or the first per-iteration failure (§4.9.1).
func (e *Engine) dispatchLoopStep(ctx context.Context, w *domain.Workflow, step *domain.WorkflowStep) (map[string]any, error) {
	innerDescriptor := configMap(step.Config, "step")
	if innerDescriptor == nil {
		return map[string]any{"success": true, "iterations": 0, "results": []any{}}, nil
	}

	items := configSlice(step.Config, "items")
	if items == nil {
		count := int(configFloat(step.Config, "count", 0))
		items = make([]any, count)
	}

	results := make([]any, 0, len(items))
	for i, item := range items {
		sub := decodeStepDescriptor(fmt.Sprintf("%s.%d", step.ID, i), innerDescriptor)
		if sub.Config == nil {
			sub.Config = make(map[string]any)
		}
		sub.Config["item"] = item
		sub.Config["index"] = i

		result, err := e.dispatchStep(ctx, w, sub)
		if err != nil {
			return map[string]any{
				"success":    false,
				"iterations": i,
				"results":    results,
				"error":      err.Error(),
			}, nil
		}
		results = append(results, result)
		if ok, _ := result["success"].(bool); !ok {
			return map[string]any{
				"success":    false,
				"iterations": i + 1,
				"results":    results,
			}, nil
		}
	}

	return map[string]any{
		"success":    true,
		"iterations": len(items),
		"results":    results,
	}, nil
}

func (e *Engine) dispatchWaitStep(ctx context.Context, step *domain.WorkflowStep) (map[string]any, error) {
	seconds := configFloat(step.Config, "seconds", 0)
	timer := time.NewTimer(time.Duration(seconds * float64(time.Second)))
	defer timer.Stop()

	select {
	case <-timer.C:
		return map[string]any{"success": true, "waited_seconds": seconds}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// errApprovalRejected is returned by dispatchApprovalStep when the external
// decision was a reject, distinguishing it from other failure categories
// per §7's "Approval rejection" error kind.
var errApprovalRejected = fmt.Errorf("approval rejected")

// dispatchApprovalStep parks the step's goroutine on a per-step channel
// until ResolveApproval is called with the matching step id (§4.9.1, §9).
func (e *Engine) dispatchApprovalStep(ctx context.Context, step *domain.WorkflowStep) (map[string]any, error) {
	req := &approvalRequest{decision: make(chan approvalDecision, 1)}

	e.mu.Lock()
	e.pendingApprovals[step.ID] = req
	e.mu.Unlock()

	select {
	case d := <-req.decision:
		if !d.approved {
			return nil, errApprovalRejected
		}
		return map[string]any{"success": true, "approved_by": d.approver, "comment": d.comment}, nil
	case <-ctx.Done():
		e.mu.Lock()
		delete(e.pendingApprovals, step.ID)
		e.mu.Unlock()
		return nil, ctx.Err()
	}
}

// decodeStepDescriptor builds an ad-hoc WorkflowStep from a sub-step config
// map, used by the parallel and loop step types whose inner steps are not
// part of the owning workflow's own Steps slice.
func decodeStepDescriptor(id string, descriptor map[string]any) *domain.WorkflowStep {
	step := &domain.WorkflowStep{
		ID:     id,
		Name:   configString(descriptor, "name"),
		Type:   domain.StepType(configString(descriptor, "type")),
		Status: domain.WorkflowStatusPending,
	}
	if cfg := configMap(descriptor, "config"); cfg != nil {
		step.Config = cfg
	} else {
		step.Config = make(map[string]any)
	}
	step.Condition = configString(descriptor, "condition")
	return step
}

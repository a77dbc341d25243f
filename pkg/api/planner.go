package api

import (
	"encoding/json"

	msgraph "github.com/jhoneill/MSGraphAPI"
	"github.com/jhoneill/MSGraphAPI/internal/logging"
)

// GetPlan retrieves a Planner plan by ID.
func (c *Client) GetPlan(id string) (*msgraph.Plan, error) {
	if id == "" {
		return nil, msgraph.NewMissingTarget("plan id must not be empty")
	}
	var plan msgraph.Plan
	if err := c.do("GET", epPlans+"/"+id, "", nil, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// ListBuckets retrieves the buckets of a plan.
func (c *Client) ListBuckets(planID string) ([]*msgraph.Bucket, error) {
	if planID == "" {
		return nil, msgraph.NewMissingTarget("plan id must not be empty")
	}
	out := make([]*msgraph.Bucket, 0)
	err := c.list(epPlans+"/"+planID+"/buckets", "", func(raw json.RawMessage) error {
		var batch []*msgraph.Bucket
		if err := json.Unmarshal(raw, &batch); err != nil {
			return err
		}
		out = append(out, batch...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	logging.Debug("List buckets returned %d items", len(out))
	return out, nil
}

// ListTasks retrieves the tasks of a plan.
func (c *Client) ListTasks(planID string) ([]*msgraph.Task, error) {
	if planID == "" {
		return nil, msgraph.NewMissingTarget("plan id must not be empty")
	}
	out := make([]*msgraph.Task, 0)
	err := c.list(epPlans+"/"+planID+"/tasks", "", func(raw json.RawMessage) error {
		var batch []*msgraph.Task
		if err := json.Unmarshal(raw, &batch); err != nil {
			return err
		}
		out = append(out, batch...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	logging.Debug("List tasks returned %d items", len(out))
	return out, nil
}

// GetTaskDetail retrieves the extended fields of one task.
func (c *Client) GetTaskDetail(taskID string) (*msgraph.TaskDetail, error) {
	if taskID == "" {
		return nil, msgraph.NewMissingTarget("task id must not be empty")
	}
	var detail msgraph.TaskDetail
	if err := c.do("GET", epTasks+"/"+taskID+"/details", "", nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func TestApplyTemplate_Success(t *testing.T) {
	f := newFixture(t)
	var got usecase.ApplyTemplateInput
	f.apply = func(_ context.Context, in usecase.ApplyTemplateInput) (*usecase.ApplyTemplateOutput, error) {
		got = in
		return &usecase.ApplyTemplateOutput{
			Tasks: []*entity.Task{
				{ID: "t1", TaskID: "ONB-ABCDEF-1", Title: "Kickoff call"},
				{ID: "t2", TaskID: "ONB-ABCDEF-2", Title: "Account setup"},
			},
			TemplateName: "Basic Onboarding",
			Count:        2,
			Message:      "Successfully created 2 onboarding tasks from template",
		}, nil
	}

	rec := f.do(t, http.MethodPost, "/functions/v1/apply-onboarding-template",
		`{"clientId":"c-1","templateId":"tpl-1","assigneeId":"u-2"}`,
		f.token(t, "actor-1", entity.RoleManager))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Basic Onboarding", body["template"])
	assert.Len(t, body["tasks"], 2)
	assert.NotContains(t, body, "count")

	assert.Equal(t, "c-1", got.ClientID)
	assert.Equal(t, "tpl-1", got.TemplateID)
	if assert.NotNil(t, got.AssigneeID) {
		assert.Equal(t, "u-2", *got.AssigneeID)
	}
	assert.Equal(t, "actor-1", got.ActorID)
}

func TestApplyTemplate_DomainErrorIs400(t *testing.T) {
	f := newFixture(t)
	f.apply = func(context.Context, usecase.ApplyTemplateInput) (*usecase.ApplyTemplateOutput, error) {
		return nil, &usecase.DomainError{Code: usecase.CodeEmptyTemplate, Message: "Template has no items"}
	}

	rec := f.do(t, http.MethodPost, "/functions/v1/apply-onboarding-template",
		`{"clientId":"c-1","templateId":"tpl-1"}`, f.token(t, "actor-1", entity.RoleUser))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]any{"success": false, "error": "Template has no items"}, decode(t, rec))
}

func TestApplyTemplate_InvalidJSON(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/functions/v1/apply-onboarding-template", `not json`, f.token(t, "actor-1", entity.RoleUser))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid JSON body", decode(t, rec)["error"])
}

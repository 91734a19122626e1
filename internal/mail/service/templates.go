package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	domain "github.com/BanhTheCake/getnokori/internal/mail/domain"
)

// Ensure templateResolver implements domain.Resolver
var _ domain.Resolver = (*templateResolver)(nil)

// templateResolver renders stored mail templates. It only reads the template
// store; it never touches the ledger.
type templateResolver struct {
	repo domain.Repository
}

func NewResolver(repo domain.Repository) domain.Resolver {
	return &templateResolver{repo: repo}
}

func (r *templateResolver) Resolve(ctx context.Context, accountID uuid.UUID, templateID string, callerCtx map[string]any) (domain.Resolved, error) {
	tpl, err := r.repo.GetTemplate(ctx, accountID, templateID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Resolved{}, domain.ErrTemplateNotFound
		}
		return domain.Resolved{}, err
	}

	data, err := mergeContext(tpl.Context, callerCtx)
	if err != nil {
		return domain.Resolved{}, err
	}

	subject, err := render("subject", tpl.Subject, data)
	if err != nil {
		return domain.Resolved{}, err
	}
	body, err := render("body", tpl.Template, data)
	if err != nil {
		return domain.Resolved{}, err
	}

	return domain.Resolved{Subject: subject, HTML: body}, nil
}

// mergeContext layers the caller's context over the template's stored
// defaults; any key the caller omits falls back to the default value.
func mergeContext(stored []byte, callerCtx map[string]any) (map[string]any, error) {
	data := map[string]any{}
	if len(stored) > 0 {
		if err := json.Unmarshal(stored, &data); err != nil {
			return nil, fmt.Errorf("template default context: %w", err)
		}
	}
	for k, v := range callerCtx {
		data[k] = v
	}
	return data, nil
}

func render(name, text string, data map[string]any) (string, error) {
	t, err := template.New(name).Option("missingkey=zero").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return sb.String(), nil
}

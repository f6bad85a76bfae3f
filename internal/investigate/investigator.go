// File: internal/investigate/investigator.go

// Package investigate orchestrates one investigation end to end: fan the
// target out to the search categories, extract forensic indicators from the
// combined evidence, ask the model for a narrative and assemble the report.
package investigate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shadowglass/inquest/api/schemas"
	"github.com/shadowglass/inquest/internal/config"
	"github.com/shadowglass/inquest/internal/forensics"
	"github.com/shadowglass/inquest/internal/search"
)

// User-facing failure messages.
const (
	msgEmptyTarget  = "Erro: Por favor, insira um alvo para investigação."
	msgOracleFailed = "Erro ao gerar o relatório: %v"
)

// analystPersona is the system prompt of the report generation call.
const analystPersona = "Você é um perito em investigação online e análise forense digital. " +
	"You are an expert digital forensic investigator. " +
	"Produza relatórios objetivos, citando indícios concretos."

// Request describes one investigation.
type Request struct {
	Target     string
	Focus      string
	Categories []schemas.Category
	MaxResults int
}

// Investigator wires the aggregator, the extractor and the oracle into the
// investigation flow.
type Investigator struct {
	aggregator *search.Aggregator
	extractor  *forensics.Extractor
	oracle     schemas.Oracle
	cfg        config.InvestigationConfig
	logger     *zap.Logger
}

// NewInvestigator builds an investigator. All collaborators are required.
func NewInvestigator(aggregator *search.Aggregator, extractor *forensics.Extractor, oracle schemas.Oracle, cfg config.InvestigationConfig, logger *zap.Logger) (*Investigator, error) {
	if aggregator == nil {
		return nil, errors.New("aggregator is required")
	}
	if extractor == nil {
		return nil, errors.New("extractor is required")
	}
	if oracle == nil {
		return nil, errors.New("oracle is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Investigator{
		aggregator: aggregator,
		extractor:  extractor,
		oracle:     oracle,
		cfg:        cfg,
		logger:     logger.Named("investigator"),
	}, nil
}

// Investigate runs one investigation and always returns a report. A blank
// target fails before any search or model call. Search failures degrade to
// empty batches upstream; only an oracle failure puts the report in the
// failure state.
func (inv *Investigator) Investigate(ctx context.Context, req Request) schemas.Report {
	report := schemas.Report{
		ID:     uuid.NewString(),
		Target: strings.TrimSpace(req.Target),
	}
	logger := inv.logger.With(zap.String("investigation_id", report.ID))

	if report.Target == "" {
		report.Err = msgEmptyTarget
		return report
	}

	categories := req.Categories
	if len(categories) == 0 {
		categories = []schemas.Category{schemas.CategoryWeb}
	}
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = inv.cfg.MaxResults
	}

	logger.Info("Investigation started",
		zap.String("target", report.Target),
		zap.Int("categories", len(categories)),
		zap.Int("max_results", maxResults))

	batches := inv.aggregator.Search(ctx, report.Target, categories, maxResults)

	report.LinkTables = make(map[schemas.Category]string, len(batches))
	var evidence strings.Builder
	for _, category := range orderedCategories(categories) {
		batch := batches[category]
		if notice := search.ShortfallNotice(batch, report.Target); notice != "" {
			report.Notices = append(report.Notices, notice)
		}
		report.LinkTables[category] = search.RenderLinkTable(batch)
		fmt.Fprintf(&evidence, "=== %s ===\n%s\n\n",
			search.CategoryLabel(category), search.RenderListing(batch))
	}

	report.Findings = inv.extractor.Extract(evidence.String())

	narrative, err := inv.oracle.Complete(ctx, schemas.CompletionRequest{
		Messages: []schemas.Message{
			{Role: schemas.RoleSystem, Content: analystPersona},
			{Role: schemas.RoleUser, Content: buildPrompt(report.Target, req.Focus, evidence.String(), report.Findings)},
		},
		Temperature: inv.cfg.Temperature,
		MaxTokens:   inv.cfg.MaxTokens,
	})
	if err != nil {
		logger.Error("Report generation failed", zap.Error(err))
		report.Err = fmt.Sprintf(msgOracleFailed, err)
		return report
	}

	report.Narrative = strings.TrimSpace(narrative)
	logger.Info("Investigation finished",
		zap.Int("findings", len(report.Findings)),
		zap.Int("notices", len(report.Notices)))
	return report
}

// orderedCategories returns the requested categories in display order.
func orderedCategories(requested []schemas.Category) []schemas.Category {
	want := make(map[schemas.Category]bool, len(requested))
	for _, c := range requested {
		want[c] = true
	}
	ordered := make([]schemas.Category, 0, len(requested))
	for _, c := range schemas.AllCategories {
		if want[c] {
			ordered = append(ordered, c)
			delete(want, c)
		}
	}
	// Unknown categories keep their request order at the end.
	for _, c := range requested {
		if want[c] {
			ordered = append(ordered, c)
			delete(want, c)
		}
	}
	return ordered
}

// buildPrompt assembles the report generation prompt: the analysis request,
// the raw evidence and the extracted indicators grouped by kind.
func buildPrompt(target, focus, evidence string, findings schemas.FindingSet) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Analise os dados obtidos sobre '%s'", target)
	if focus = strings.TrimSpace(focus); focus != "" {
		fmt.Fprintf(&sb, ", focando em '%s'", focus)
	}
	sb.WriteString(".\n\nResultados da busca:\n\n")
	sb.WriteString(evidence)

	if len(findings) > 0 {
		sb.WriteString("Análise Forense Extraída:\n")
		kinds := make([]string, 0, len(findings))
		for kind := range findings {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)
		for _, kind := range kinds {
			fmt.Fprintf(&sb, "- %s: %s\n", forensics.KindLabel(kind), strings.Join(findings[kind], ", "))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Elabore um relatório detalhado com ligações, riscos e informações relevantes.")
	return sb.String()
}

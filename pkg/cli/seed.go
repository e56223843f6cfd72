package cli

import (
	"context"
	"fmt"

	"github.com/secmon-lab/triage/pkg/domain/model/alert"
	"github.com/secmon-lab/triage/pkg/domain/model/cases"
	"github.com/secmon-lab/triage/pkg/domain/types"
	"github.com/secmon-lab/triage/pkg/repository/memory"
)

// seedDemoData fills the in-memory store with a small demo queue so the
// API can be exercised without a real alert source.
func seedDemoData(ctx context.Context, repo *memory.Repository) error {
	sources := []string{"misp", "suricata", "crowdstrike"}
	severities := []types.Severity{
		types.SeverityLow, types.SeverityMedium,
		types.SeverityHigh, types.SeverityCritical,
	}

	for i := 0; i < 30; i++ {
		a := alert.New(ctx,
			fmt.Sprintf("Suspicious activity #%03d", i+1),
			types.AlertStatusNew,
			severities[i%len(severities)],
		)
		a.Source = sources[i%len(sources)]
		a.Type = "ioc-match"
		a.SourceRef = fmt.Sprintf("evt-%04d", 1000+i)
		a.Tags = []string{"demo"}
		if i%5 == 0 {
			a.Status = types.AlertStatusUpdated
		}

		if err := repo.PutAlert(ctx, a); err != nil {
			return err
		}
	}

	tmpl := &cases.Template{
		ID:          types.NewTemplateID(),
		Name:        "Phishing investigation",
		TitlePrefix: "[PHISH]",
		Description: "Standard phishing triage checklist",
		Severity:    types.SeverityMedium,
		TLP:         types.TLPAmber,
	}
	return repo.PutTemplate(ctx, tmpl)
}

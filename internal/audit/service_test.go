package audit_test

import (
	"context"
	"strings"
	"testing"

	"restoran-pos/internal/audit"
	"restoran-pos/internal/database/dbtest"
	"restoran-pos/internal/models"
)

func TestRecorder_WriteAndList(t *testing.T) {
	ctx := context.Background()
	r := audit.NewRecorder(dbtest.Open(t))

	entries := []audit.LogOptions{
		{UserID: 1, UserName: "admin", EntityType: audit.EntityProduct, EntityID: 4, Action: models.AuditActionCreate, Source: audit.SourceWeb},
		{UserID: 1, UserName: "admin", EntityType: audit.EntityUser, EntityID: 2, Action: models.AuditActionDeactivate, Source: audit.SourceWeb},
		{UserID: 3, EntityType: audit.EntityProduct, EntityID: 4, Action: models.AuditActionUpdate, Source: audit.SourceAPI,
			Description: strings.Repeat("x", 300)},
	}
	for _, e := range entries {
		if err := r.Write(ctx, e); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter audit.Filter
		want   []models.AuditAction
	}{
		{"all newest first", audit.Filter{}, []models.AuditAction{models.AuditActionUpdate, models.AuditActionDeactivate, models.AuditActionCreate}},
		{"by entity", audit.Filter{EntityType: audit.EntityProduct, EntityID: 4}, []models.AuditAction{models.AuditActionUpdate, models.AuditActionCreate}},
		{"by user", audit.Filter{UserID: 1}, []models.AuditAction{models.AuditActionDeactivate, models.AuditActionCreate}},
		{"limit", audit.Filter{Limit: 1}, []models.AuditAction{models.AuditActionUpdate}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs, err := r.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(logs) != len(tt.want) {
				t.Fatalf("got %d entries, want %d", len(logs), len(tt.want))
			}
			for i, l := range logs {
				if l.Action != tt.want[i] {
					t.Errorf("entry %d action = %s, want %s", i, l.Action, tt.want[i])
				}
			}
		})
	}

	logs, _ := r.List(ctx, audit.Filter{Limit: 1})
	if n := len([]rune(logs[0].Description)); n != 255 {
		t.Errorf("description length = %d, want 255", n)
	}
}

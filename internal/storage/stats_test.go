package storage

import (
	"testing"
)

func TestSnapshotEmptyStore(t *testing.T) {
	db := setupTestDB(t)
	agg := NewAggregator(db)

	stats, err := agg.Snapshot()
	if err != nil {
		t.Fatalf("Failed to snapshot: %v", err)
	}
	if stats.Total != 0 || stats.Companies != 0 || stats.Reports != 0 || stats.Evaluations != 0 {
		t.Errorf("Expected all-zero snapshot, got %+v", stats)
	}
	if len(stats.ByModality) != 0 || len(stats.ByStatus) != 0 {
		t.Errorf("Expected empty groupings, got %+v", stats)
	}
}

func TestSnapshotCounts(t *testing.T) {
	repo, db := newTestRepo(t)
	agg := NewAggregator(db)

	seed := []NewAppointment{
		{Company: "Metalúrgica Sul", PatientName: "João", Modality: "Admissional", Date: "05/01/2025", Time: "09:00"},
		{Company: "Metalúrgica Sul", PatientName: "Ana", Modality: "Periódico", Date: "06/01/2025", Time: "10:00", ReportPDF: strPtr("laudo.pdf")},
		{Company: "Transportes Norte", PatientName: "Maria", Modality: "Periódico", Date: "07/01/2025", Time: "11:00"},
	}
	for _, na := range seed {
		if _, err := repo.Insert(na); err != nil {
			t.Fatalf("Failed to insert: %v", err)
		}
	}

	stats, err := agg.Snapshot()
	if err != nil {
		t.Fatalf("Failed to snapshot: %v", err)
	}

	if stats.Total != 3 {
		t.Errorf("Total = %d, want 3", stats.Total)
	}
	if stats.Companies != 2 {
		t.Errorf("Companies = %d, want 2", stats.Companies)
	}
	if stats.Reports != 1 {
		t.Errorf("Reports = %d, want 1", stats.Reports)
	}
	if stats.Evaluations != 0 {
		t.Errorf("Evaluations = %d, want 0", stats.Evaluations)
	}
}

func TestSnapshotGroupings(t *testing.T) {
	repo, db := newTestRepo(t)
	agg := NewAggregator(db)

	// Two Periódico, one Admissional: groupings come back count-descending.
	seed := []NewAppointment{
		{Company: "A", PatientName: "P1", Modality: "Periódico", Date: "05/01/2025", Time: "09:00"},
		{Company: "A", PatientName: "P2", Modality: "Periódico", Date: "06/01/2025", Time: "10:00"},
		{Company: "B", PatientName: "P3", Modality: "Admissional", Date: "07/01/2025", Time: "11:00"},
	}
	ids := make([]int64, 0, len(seed))
	for _, na := range seed {
		id, err := repo.Insert(na)
		if err != nil {
			t.Fatalf("Failed to insert: %v", err)
		}
		ids = append(ids, id)
	}

	if _, err := repo.Update(ids[0], Patch{Status: strPtr("Concluído")}); err != nil {
		t.Fatalf("Failed to update: %v", err)
	}

	stats, err := agg.Snapshot()
	if err != nil {
		t.Fatalf("Failed to snapshot: %v", err)
	}

	if len(stats.ByModality) != 2 {
		t.Fatalf("Expected 2 modality buckets, got %d", len(stats.ByModality))
	}
	if stats.ByModality[0].Label != "Periódico" || stats.ByModality[0].Count != 2 {
		t.Errorf("Top modality = %+v, want Periódico/2", stats.ByModality[0])
	}
	if stats.ByModality[1].Label != "Admissional" || stats.ByModality[1].Count != 1 {
		t.Errorf("Second modality = %+v, want Admissional/1", stats.ByModality[1])
	}

	if len(stats.ByStatus) != 2 {
		t.Fatalf("Expected 2 status buckets, got %d", len(stats.ByStatus))
	}
	if stats.ByStatus[0].Label != "Agendado" || stats.ByStatus[0].Count != 2 {
		t.Errorf("Top status = %+v, want Agendado/2", stats.ByStatus[0])
	}
}

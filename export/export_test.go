package export_test

import (
	"strings"
	"testing"
	"time"

	"github.com/MetaCell/sckan-explorer/connectivity"
	"github.com/MetaCell/sckan-explorer/export"
	"github.com/MetaCell/sckan-explorer/storage"
	"github.com/MetaCell/sckan-explorer/vocabulary/npo"
	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/vocabulary"
	"github.com/c360studio/semstreams/vocabulary/bfo"
	"github.com/c360studio/semstreams/vocabulary/cco"
	"github.com/goccy/go-json"
)

const statementID = npo.Namespace + "neuron-type-keast-1"

func testStatement() *connectivity.Statement {
	e := connectivity.SimpleEntity
	return &connectivity.Statement{
		ID:            statementID,
		Label:         "neuron type keast 1",
		PopulationSet: "keast",
		Origins:       connectivity.Origin{Entities: connectivity.NewEntitySet(e("A"))},
		Vias: []connectivity.Via{{
			Entities: connectivity.NewEntitySet(connectivity.RegionLayerEntity("R", "L")),
			From:     connectivity.EntitySet{},
			Order:    0,
			Kind:     connectivity.ViaAxon,
		}},
		Destinations: []connectivity.Destination{{
			Entities: connectivity.NewEntitySet(e("C")),
			From:     connectivity.NewEntitySet(e("A")),
			Kind:     connectivity.DestinationAxonTerminal,
		}},
		Species:          []string{"NCBITaxon:10116"},
		ValidationErrors: connectivity.NewValidationErrors(),
	}
}

func objectsOf(triples []message.Triple, subject, predicate string) []any {
	var out []any
	for _, tr := range triples {
		if tr.Subject == subject && tr.Predicate == predicate {
			out = append(out, tr.Object)
		}
	}
	return out
}

func TestStatementTriples(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	triples := export.StatementTriples(testStatement(), "snap-1", export.ProfileMinimal, now)

	tests := []struct {
		name      string
		subject   string
		predicate string
		want      []any
	}{
		{"label", statementID, npo.StatementLabel, []any{"neuron type keast 1"}},
		{"population set", statementID, npo.StatementPopulationSet, []any{"keast"}},
		{"species", statementID, npo.StatementSpecies, []any{"NCBITaxon:10116"}},
		{"snapshot", statementID, npo.StatementSnapshot, []any{"snap-1"}},
		{"types", statementID, npo.StatementType, []any{npo.ClassConnectivityStatement, vocabulary.ProvEntity}},
		{"origin link", statementID, npo.ConnectivityOrigin, []any{export.OriginID(statementID)}},
		{"via link", statementID, npo.ConnectivityVia, []any{export.ViaID(statementID, 0)}},
		{"destination link", statementID, npo.ConnectivityDestination, []any{export.DestinationID(statementID, 0)}},
		{"origin entity", export.OriginID(statementID), npo.SegmentEntity, []any{"A"}},
		{"via entity", export.ViaID(statementID, 0), npo.SegmentEntity, []any{"R (region), L (layer)"}},
		{"via region", export.ViaID(statementID, 0), npo.SegmentRegion, []any{"R"}},
		{"via layer", export.ViaID(statementID, 0), npo.SegmentLayer, []any{"L"}},
		{"via order", export.ViaID(statementID, 0), npo.SegmentOrder, []any{0}},
		{"via kind", export.ViaID(statementID, 0), npo.SegmentKind, []any{"AXON"}},
		{"destination from", export.DestinationID(statementID, 0), npo.SegmentFrom, []any{"A"}},
		{"destination kind", export.DestinationID(statementID, 0), npo.SegmentKind, []any{"AXON-T"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := objectsOf(triples, tc.subject, tc.predicate)
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("object %d = %v, want %v", i, got[i], tc.want[i])
				}
			}
		})
	}

	if got := objectsOf(triples, statementID, npo.StatementValidation); len(got) != 0 {
		t.Errorf("clean statement should not carry a validation summary, got %v", got)
	}
	if got := objectsOf(triples, export.ViaID(statementID, 0), npo.SegmentFrom); len(got) != 0 {
		t.Errorf("cleared from set should not be exported, got %v", got)
	}
	for _, tr := range triples {
		if tr.Source != export.Source {
			t.Errorf("source of %s %s = %q", tr.Subject, tr.Predicate, tr.Source)
		}
	}
}

func TestStatementTriples_Validation(t *testing.T) {
	s := testStatement()
	s.ValidationErrors.Species.Add("NCBITaxon:9606")

	triples := export.StatementTriples(s, "", export.ProfileMinimal, time.Now())
	got := objectsOf(triples, statementID, npo.StatementValidation)
	if len(got) != 1 || got[0] != "Species not found: NCBITaxon:9606" {
		t.Errorf("validation = %v", got)
	}
	if got := objectsOf(triples, statementID, npo.StatementSnapshot); len(got) != 0 {
		t.Errorf("snapshot should be omitted, got %v", got)
	}
}

func TestTypeIRIs(t *testing.T) {
	tests := []struct {
		profile export.Profile
		want    []string
	}{
		{export.ProfileMinimal, []string{npo.ClassConnectivityStatement, vocabulary.ProvEntity}},
		{export.ProfileBFO, []string{npo.ClassConnectivityStatement, vocabulary.ProvEntity, bfo.GenericallyDependentContinuant}},
		{export.ProfileCCO, []string{npo.ClassConnectivityStatement, vocabulary.ProvEntity, bfo.GenericallyDependentContinuant, cco.InformationContentEntity}},
	}

	for _, tc := range tests {
		t.Run(string(tc.profile), func(t *testing.T) {
			got := export.TypeIRIs(export.EntityTypeStatement, tc.profile)
			if strings.Join(got, " ") != strings.Join(tc.want, " ") {
				t.Errorf("TypeIRIs() = %v, want %v", got, tc.want)
			}
		})
	}

	if got := export.TypeIRIs(export.EntityTypeSegment, export.ProfileMinimal); len(got) != 1 {
		t.Errorf("segment types = %v, want only the npo class", got)
	}
}

func TestParseProfileAndFormat(t *testing.T) {
	if p, err := export.ParseProfile(""); err != nil || p != export.ProfileMinimal {
		t.Errorf("ParseProfile(\"\") = %v, %v", p, err)
	}
	if p, err := export.ParseProfile("CCO"); err != nil || p != export.ProfileCCO {
		t.Errorf("ParseProfile(CCO) = %v, %v", p, err)
	}
	if _, err := export.ParseProfile("owl"); err == nil {
		t.Error("expected error for unknown profile")
	}

	if f, err := export.ParseFormat(""); err != nil || f != export.FormatTurtle {
		t.Errorf("ParseFormat(\"\") = %v, %v", f, err)
	}
	if f, err := export.ParseFormat("JSONLD"); err != nil || f != export.FormatJSONLD {
		t.Errorf("ParseFormat(JSONLD) = %v, %v", f, err)
	}
	if _, err := export.ParseFormat("rdfxml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestExporter(t *testing.T) {
	data, err := json.Marshal(testStatement())
	if err != nil {
		t.Fatal(err)
	}

	exp := export.NewExporter(export.ProfileMinimal, "")
	skipped := exp.AddRecords([]storage.Record{
		{ReferenceURI: statementID, SnapshotID: "snap-1", Data: data},
		{ReferenceURI: "bad", Data: []byte(`[1, 2]`)},
	})
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
	if exp.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", exp.Len())
	}
	if got := objectsOf(exp.Triples(), statementID, npo.StatementSnapshot); len(got) != 1 || got[0] != "snap-1" {
		t.Errorf("snapshot = %v", got)
	}

	out, err := exp.Export(export.FormatNTriples)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !strings.Contains(out, "neuron type keast 1") {
		t.Errorf("output is missing the statement label:\n%s", out)
	}

	if _, err := exp.Export(export.Format("rdfxml")); err == nil {
		t.Error("expected error for unsupported format")
	}
}

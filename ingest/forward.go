package ingest

import "github.com/MetaCell/sckan-explorer/connectivity"

// resolveForwardConnections records, on each statement, the forward
// connection targets that no statement of the batch carries as its ID.
// It returns the number of unresolved targets.
func resolveForwardConnections(statements []*connectivity.Statement, log *AnomalyLog) int {
	known := make(map[string]struct{}, len(statements))
	for _, s := range statements {
		known[s.ID] = struct{}{}
	}

	unresolved := 0
	for _, s := range statements {
		for _, target := range s.ForwardConnectionIDs() {
			if _, ok := known[target]; ok {
				continue
			}
			if s.ValidationErrors == nil {
				s.ValidationErrors = connectivity.NewValidationErrors()
			}
			s.ValidationErrors.ForwardConnection.Add(target)
			log.Add(Anomaly{
				Severity:    SeverityWarning,
				StatementID: s.ID,
				EntityID:    target,
				Message:     MsgUnresolvedForward,
			})
			unresolved++
		}
	}
	return unresolved
}

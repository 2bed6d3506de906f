// Package panlogs decides which firewall and Panorama log records are worth
// forwarding to a SIEM, and sizes the EPS and storage cost of keeping them.
//
// Quick start:
//
//	a, err := panlogs.New(panlogs.WithFormat("syslog"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	report, _ := a.AnalyzeBatch(ctx, lines)
//	fmt.Println(report.ForwardedEPS, report.ProjectedStorageBytes)
//
// Records at an override priority (critical and high by default) always
// forward; the rest forward only when the classifier's forward confidence
// meets the threshold. Analyze is not safe for concurrent use because the
// CSV decoder carries header state.
package panlogs

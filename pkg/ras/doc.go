// Package ras assembles the RAS toolchain from a configuration tree:
// structured logging, metrics, the rule manager (with optional hot
// reload), the application engine, and the optional audit trail with
// scheduled retention.
//
// Embedders that want control over the individual pieces should wire
// the underlying packages directly; Runtime is the one-call path:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("ras.yaml")
//	if err != nil { ... }
//	rt, err := ras.New(cfg)
//	if err != nil { ... }
//	defer rt.Close()
//
//	rt.Start(ctx)
//	for _, class := range classes {
//		if err := rt.ApplyClass(class); err != nil { ... }
//	}
package ras

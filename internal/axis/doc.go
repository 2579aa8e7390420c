// Package axis provides the axis registry for motioncore.
//
// An axis is one independently commandable degree of freedom of the
// controlled device. The registry is the single source of truth for axis
// configuration (type, alias, output limits) and the live commanded value
// of every axis.
//
// # Key Types
//
//   - Config: configuration and live value of one axis
//   - Type: linear, rotation, auxiliary or boolean
//   - Value: a numeric position in [0,1] or an on/off state
//   - Registry: thread-safe axis set with alias resolution
//   - Repository: persistence abstraction (SQLite implementation included)
//
// # Invariants
//
// Every configured name and alias maps to exactly one Config; aliases
// cannot collide with another axis's name or alias. Limits always satisfy
// min < max within [0,1]. Live values are mutated only by Configure
// (initial default), by the tick executor committing a tick, and by Load.
//
// # Usage
//
//	repo := axis.NewSQLiteRepository(db.DB)
//	reg := axis.NewRegistry(repo)
//	reg.SetLogger(log)
//	if err := reg.Load(ctx); err != nil {
//	    return err
//	}
//
//	err := reg.Configure(ctx, axis.Config{
//	    Name:  "L0",
//	    Type:  axis.TypeLinear,
//	    Alias: "stroke",
//	})
package axis

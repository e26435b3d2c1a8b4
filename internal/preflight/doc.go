// Package preflight provides readiness checks for the external tools and
// filesystem paths that Cleaver depends on.
//
// These checks run in two contexts:
//   - The chunk command calls RunAll before starting a run. If any check
//     fails, the run aborts instead of failing mid-encode.
//   - The CLI "cleaver status" command uses the individual check functions
//     to display tool and directory health.
package preflight

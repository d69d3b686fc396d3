// Package probe collects facts and utilization snapshots from remote
// hosts by running a shell script over the system ssh binary. Output
// comes back as key=value lines plus proc= lines for the top
// processes; unknown values map to nil fields.
package probe

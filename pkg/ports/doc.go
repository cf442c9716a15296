/*
Package ports defines the boundary interfaces between the engine core and
its collaborators: state persistence for pause/resume, and the reusable
contract suite adapters use to prove they implement it.

The engine itself never performs I/O; everything observable behind these
interfaces is supplied by an adapter.
*/
package ports

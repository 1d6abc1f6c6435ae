// Package arbitration implements bus acquisition for a multi-drop
// eBUS line: a node arbitrates for the bus by writing its own master
// address immediately after a SYN byte and observing whether that
// same byte comes back unmodified. Because every node's write is
// electrically ORed onto the wire, a node with a numerically lower
// sub-address nibble wins outright; same-class collisions get one
// priority-ordered retry before the loser backs off.
//
// Request is driven exactly like the protocol package's Handler: a
// single Run(byte) call per received byte, fed by the same owning
// collaborator. It holds no reference back to the protocol package;
// Handler holds a reference to Request and reads the Result it
// returns.
package arbitration

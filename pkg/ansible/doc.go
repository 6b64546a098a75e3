// Package ansible invokes ansible-playbook against the single provisionee
// and decodes its JSON report into per-task results.
//
// A run assembles its transient artifacts, namely the private key file
// (owner read/write only), the one-line inventory, and a directory for SSH
// control-master sockets, invokes the engine with the JSON stdout callback
// forced, then sweeps any leftover control sockets and removes every
// artifact again, on success and failure alike. The private key in
// particular must not outlive the invocation that needed it.
//
// Task semantics follow the engine's own: an unreachable host is reported
// as non-blocking rather than failed, so a task counts as successful when
// the host was unreachable or its "failed" flag is not set.
package ansible

// Package bootstrap establishes the reverse channel of trust to the target
// before anything destructive runs.
//
// The operator is assumed to already hold a reverse SSH tunnel from the
// target to this machine. Bootstrap proves it: a port number is accepted
// only when binding 127.0.0.1:<port> fails with "address in use", which is
// exactly the footprint a live tunnel leaves. An ephemeral ECDSA keypair is
// then generated in-process, the operator installs the public half in the
// target's authorized_keys, and the credentials are verified with a real
// SSH handshake back through the tunnel — the private key never touches
// disk for that test. Only the username is re-solicited on failure; the
// keypair survives the whole loop.
package bootstrap

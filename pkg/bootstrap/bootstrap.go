package bootstrap

import (
	"fmt"
	"net"
	"strconv"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/ssh"
)

// Console is the slice of the operator interface bootstrap converses
// through. Satisfied by ui.Interface.
type Console interface {
	Prompt(message string) (string, error)
	Error(message string)
	PresentPubkey(username, pubkey string)
}

// Credentials is what the target will accept from us: a username and the
// ephemeral keypair the operator installed.
type Credentials struct {
	Username string   `validate:"required"`
	Keypair  *Keypair `validate:"required"`
}

// Setup is the run configuration produced once per run: the reverse tunnel
// port and the verified credentials.
type Setup struct {
	ReversePort uint16      `validate:"required"`
	Credentials Credentials `validate:"required"`
}

// Prompt drives the whole credential bootstrap: reverse port, keypair,
// username, public-key installation and the authentication test. It loops
// until the operator gets each step right and only fails on conversation or
// key-generation errors.
func Prompt(console Console) (*Setup, error) {
	port, err := promptPort(console)
	if err != nil {
		return nil, err
	}

	keypair, err := Generate()
	if err != nil {
		return nil, err
	}
	log.Debug().Uint16("port", port).Msg("reverse port accepted, keypair generated")

	credentials, err := promptCredentials(console, port, keypair)
	if err != nil {
		return nil, err
	}
	return &Setup{ReversePort: port, Credentials: *credentials}, nil
}

// promptPort asks for the reverse port until a locally bound one is given.
func promptPort(console Console) (uint16, error) {
	for {
		input, err := console.Prompt("Which port did ssh bind to for remote forwarding?")
		if err != nil {
			return 0, err
		}

		port64, err := strconv.ParseUint(input, 10, 16)
		if err != nil {
			console.Error(fmt.Sprintf("Invalid port specification %q (%v)", input, err))
			continue
		}

		port := uint16(port64)
		if !PortBound(port) {
			console.Error(fmt.Sprintf("Port is not bound locally: %d", port))
			continue
		}
		return port, nil
	}
}

// promptCredentials solicits a username, walks the operator through key
// installation and verifies the result through the tunnel. The keypair is
// kept across failures; only the username is cleared.
func promptCredentials(console Console, port uint16, keypair *Keypair) (*Credentials, error) {
	for {
		var username string
		for username == "" {
			input, err := console.Prompt("Which username should SetMeUp use to reach you over SSH?")
			if err != nil {
				return nil, err
			}
			if input == "" {
				console.Error("The username cannot be empty")
				continue
			}
			username = input
		}

		console.PresentPubkey(username, keypair.AuthorizedKey())
		if _, err := console.Prompt("Press the Enter key when you are done:"); err != nil {
			return nil, err
		}

		if err := CheckCredentials(port, username, keypair); err != nil {
			console.Error(fmt.Sprintf("Authentication test failed: %v", err))
			continue
		}

		log.Info().Str("username", username).Uint16("port", port).Msg("credentials verified")
		return &Credentials{Username: username, Keypair: keypair}, nil
	}
}

// CheckCredentials dials the reverse tunnel and attempts a full SSH
// handshake with public-key authentication, entirely in memory. The target
// is ephemeral and was reached out-of-band, so its host key is not checked.
func CheckCredentials(port uint16, username string, keypair *Keypair) error {
	signer, err := keypair.Signer()
	if err != nil {
		return err
	}

	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(int(port)))
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect via local port %d: %w", port, err)
	}

	config := &ssh.ClientConfig{
		User:            username,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}

	client, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		conn.Close()
		return fmt.Errorf("handshake failed: %w", err)
	}
	return ssh.NewClient(client, chans, reqs).Close()
}

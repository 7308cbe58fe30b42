package cmd

import (
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var dialCmd = &cobra.Command{
	Use:   "dial host:port",
	Short: "Perform a TLS handshake while hex-dumping the raw record stream",
	Long: `dial connects to the given address, runs a TLS client handshake and a
plain HTTP GET over it, and hex-dumps every raw byte moving through the
connection to stdout. The dump is the record stream as sent on the wire
and can be fed back into "recdump decode".`,
	Args: cobra.ExactArgs(1),
	RunE: runDial,
}

func init() {
	rootCmd.AddCommand(dialCmd)
}

func runDial(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}
	addr := args[0]
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", addr, err)
	}
	serverName := cfg.ServerName
	if serverName == "" {
		serverName = host
	}

	conn, err := net.DialTimeout("tcp", addr, cfg.DialTimeout.Duration)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	dump := hex.Dumper(os.Stdout)
	defer dump.Close()
	logged := &loggedConn{Conn: conn, dump: dump}
	defer logged.Close()

	client := tls.Client(logged, &tls.Config{ServerName: serverName})
	if err := client.Handshake(); err != nil {
		return fmt.Errorf("handshake with %s: %w", addr, err)
	}
	state := client.ConnectionState()
	log.Info().
		Str("version", tls.VersionName(state.Version)).
		Str("cipher_suite", tls.CipherSuiteName(state.CipherSuite)).
		Msg("handshake complete")

	request := strings.Join([]string{
		"GET " + cfg.RequestPath + " HTTP/1.1",
		"Host: " + host,
		"Connection: close",
		"Accept-Encoding: identity",
		"", "",
	}, "\r\n")
	if _, err := client.Write([]byte(request)); err != nil {
		return fmt.Errorf("write request: %w", err)
	}
	n, err := io.Copy(io.Discard, client)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	log.Info().Int64("plaintext_bytes", n).Msg("connection drained")
	return nil
}

// loggedConn tees every byte read from or written to the connection into
// dump, so the raw record stream can be inspected alongside the decrypted
// session.
type loggedConn struct {
	net.Conn
	dump io.Writer
}

func (c *loggedConn) Read(b []byte) (int, error) {
	n, err := c.Conn.Read(b)
	if n > 0 {
		c.dump.Write(b[:n])
	}
	return n, err
}

func (c *loggedConn) Write(b []byte) (int, error) {
	c.dump.Write(b)
	return c.Conn.Write(b)
}

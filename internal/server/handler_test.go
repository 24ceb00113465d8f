package server

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashmaji946/resp-kv/internal/logging"
	"github.com/akashmaji946/resp-kv/internal/store"
)

func newTestHandler() *Handler {
	m := store.NewStripedMap[string, []byte](0.75, store.StringHash, 16, 8)
	return NewHandler(m, logging.New(false))
}

// pipe returns a connected pair of net.Conn, one to hand to the handler
// and one to act as the client.
func pipe() (serverSide, clientSide net.Conn) {
	return net.Pipe()
}

func TestHandlerSeedScenarioSetThenGet(t *testing.T) {
	h := newTestHandler()
	server, client := pipe()
	go h.HandleConnection(server)
	defer client.Close()

	client.SetDeadline(time.Now().Add(2 * time.Second))

	_, err := client.Write([]byte("*3\r\n$3\r\nSET\r\n$3\r\nfoo\r\n$3\r\nbar\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "+OK\r\n", readN(t, client, 5))

	_, err = client.Write([]byte("*2\r\n$3\r\nGET\r\n$3\r\nfoo\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "$3\r\nbar\r\n", readN(t, client, 9))
}

func TestHandlerSeedScenarioGetMissing(t *testing.T) {
	h := newTestHandler()
	server, client := pipe()
	go h.HandleConnection(server)
	defer client.Close()
	client.SetDeadline(time.Now().Add(2 * time.Second))

	_, err := client.Write([]byte("*2\r\n$3\r\nGET\r\n$7\r\nmissing\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "$-1\r\n", readN(t, client, 5))
}

func TestHandlerSeedScenarioDelThenGet(t *testing.T) {
	h := newTestHandler()
	server, client := pipe()
	go h.HandleConnection(server)
	defer client.Close()
	client.SetDeadline(time.Now().Add(2 * time.Second))

	_, err := client.Write([]byte("*3\r\n$3\r\nSET\r\n$3\r\nfoo\r\n$3\r\nbar\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "+OK\r\n", readN(t, client, 5))

	_, err = client.Write([]byte("*2\r\n$3\r\nDEL\r\n$3\r\nfoo\r\n"))
	require.NoError(t, err)
	assert.Equal(t, ":1\r\n", readN(t, client, 4))

	_, err = client.Write([]byte("*2\r\n$3\r\nGET\r\n$3\r\nfoo\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "$-1\r\n", readN(t, client, 5))
}

func TestHandlerSeedScenarioMalformedClosesConnection(t *testing.T) {
	h := newTestHandler()
	server, client := pipe()
	go h.HandleConnection(server)
	defer client.Close()
	client.SetDeadline(time.Now().Add(2 * time.Second))

	_, err := client.Write([]byte("@garbage\r\n"))
	require.NoError(t, err)

	buf := make([]byte, 1)
	_, err = client.Read(buf)
	assert.Error(t, err, "connection should be closed with no prior bytes sent")
}

func TestHandlerSeedScenarioSplitAcrossReads(t *testing.T) {
	h := newTestHandler()
	server, client := pipe()
	go h.HandleConnection(server)
	defer client.Close()
	client.SetDeadline(time.Now().Add(2 * time.Second))

	_, err := client.Write([]byte("*3\r\n$3\r\nSET\r\n$3\r\nfoo\r\n$3\r\nbar\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "+OK\r\n", readN(t, client, 5))

	_, err = client.Write([]byte("*2\r\n$3\r\nGE"))
	require.NoError(t, err)
	_, err = client.Write([]byte("T\r\n$3\r\nfoo\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "$3\r\nbar\r\n", readN(t, client, 9))
}

func TestHandlerPipelinedRequestsRespondInOrder(t *testing.T) {
	h := newTestHandler()
	server, client := pipe()
	go h.HandleConnection(server)
	defer client.Close()
	client.SetDeadline(time.Now().Add(2 * time.Second))

	wire := "*3\r\n$3\r\nSET\r\n$1\r\na\r\n$1\r\n1\r\n" +
		"*3\r\n$3\r\nSET\r\n$1\r\nb\r\n$1\r\n2\r\n" +
		"*2\r\n$3\r\nGET\r\n$1\r\na\r\n" +
		"*2\r\n$3\r\nGET\r\n$1\r\nb\r\n"
	_, err := client.Write([]byte(wire))
	require.NoError(t, err)

	assert.Equal(t, "+OK\r\n", readN(t, client, 5))
	assert.Equal(t, "+OK\r\n", readN(t, client, 5))
	assert.Equal(t, "$1\r\n1\r\n", readN(t, client, 7))
	assert.Equal(t, "$1\r\n2\r\n", readN(t, client, 7))
}

func TestHandlerSeedScenarioUnknownCommand(t *testing.T) {
	h := newTestHandler()
	server, client := pipe()
	go h.HandleConnection(server)
	defer client.Close()
	client.SetDeadline(time.Now().Add(2 * time.Second))

	_, err := client.Write([]byte("*1\r\n$4\r\nPING\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "-ERR Unknown subcommand or command\r\n", string(readUntilCRLF(t, client)))
}

func TestHandlerUnknownCommandReturnsErrorAndStaysOpen(t *testing.T) {
	h := newTestHandler()
	server, client := pipe()
	go h.HandleConnection(server)
	defer client.Close()
	client.SetDeadline(time.Now().Add(2 * time.Second))

	_, err := client.Write([]byte("*1\r\n$8\r\nFLUSHALL\r\n"))
	require.NoError(t, err)
	line := readUntilCRLF(t, client)
	assert.Equal(t, byte('-'), line[0])

	_, err = client.Write([]byte("*2\r\n$3\r\nGET\r\n$1\r\nx\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "$-1\r\n", readN(t, client, 5))
}

func readN(t *testing.T, conn net.Conn, n int) string {
	t.Helper()
	buf := make([]byte, n)
	total := 0
	for total < n {
		k, err := conn.Read(buf[total:])
		require.NoError(t, err)
		total += k
	}
	return string(buf)
}

func readUntilCRLF(t *testing.T, conn net.Conn) []byte {
	t.Helper()
	var out []byte
	buf := make([]byte, 1)
	for {
		_, err := conn.Read(buf)
		require.NoError(t, err)
		out = append(out, buf[0])
		if len(out) >= 2 && out[len(out)-2] == '\r' && out[len(out)-1] == '\n' {
			return out
		}
	}
}

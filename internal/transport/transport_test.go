package transport

import (
	"bufio"
	"net"
	"testing"
)

func pipeConn(t *testing.T) (*Conn, net.Conn) {
	t.Helper()
	client, server := net.Pipe()
	c := newConn(client)
	go func() {
		// Drain the handshake frame so sendHello's Flush never blocks on
		// the unbuffered pipe.
		bufio.NewReader(server).ReadString('\n')
	}()
	if err := c.sendHello(); err != nil {
		t.Fatalf("sendHello: %v", err)
	}
	return c, server
}

func TestReadRewardMapsPayloads(t *testing.T) {
	c, server := pipeConn(t)
	defer c.Close()
	defer server.Close()

	cases := []struct {
		payload string
		want    rune
	}{
		{"1\n", '+'},
		{"-1\n", '-'},
		{"\n", ' '},
	}
	for _, tc := range cases {
		go server.Write([]byte(tc.payload))
		got, err := c.ReadReward()
		if err != nil {
			t.Fatalf("ReadReward(%q): %v", tc.payload, err)
		}
		if got != tc.want {
			t.Fatalf("ReadReward(%q) = %q, want %q", tc.payload, got, tc.want)
		}
	}
}

func TestReadCharRejectsMultiRunePayload(t *testing.T) {
	c, server := pipeConn(t)
	defer c.Close()
	defer server.Close()

	go server.Write([]byte("ab\n"))
	if _, err := c.ReadChar(); err == nil {
		t.Fatalf("expected ReadChar to reject a multi-rune payload")
	}
}

func TestSendReplyWritesSingleCharLine(t *testing.T) {
	c, server := pipeConn(t)
	defer c.Close()
	defer server.Close()

	reader := bufio.NewReader(server)
	done := make(chan struct{})
	var got string
	go func() {
		got, _ = reader.ReadString('\n')
		close(done)
	}()

	if err := c.SendReply('x'); err != nil {
		t.Fatalf("SendReply: %v", err)
	}
	<-done
	if got != "x\n" {
		t.Fatalf("SendReply wrote %q, want %q", got, "x\n")
	}
}

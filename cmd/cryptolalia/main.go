package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"cryptolalia/internal/display"
	"cryptolalia/internal/transport"
	"cryptolalia/pkg/cryptolalia"
)

const (
	minBackoff = 500 * time.Millisecond
	maxBackoff = 30 * time.Second
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("cryptolalia", flag.ContinueOnError)
	addr := fs.String("addr", "127.0.0.1:5556", "teacher transport address")
	noDisplay := fs.Bool("no-display", false, "suppress the rolling conversation view")
	if err := fs.Parse(args); err != nil {
		return err
	}

	agent := cryptolalia.New()
	var view *display.Display
	if !*noDisplay {
		view = display.New(os.Stdout, 0)
	}

	backoff := minBackoff
	for {
		conn, err := transport.Dial(ctx, *addr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "dial %s: %v, retrying in %s\n", *addr, err, backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			backoff = nextBackoff(backoff)
			continue
		}
		backoff = minBackoff

		err = serve(conn, agent, view)
		conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "connection lost: %v, reconnecting\n", err)
		}
	}
}

// serve runs the reward frame → char frame → RegisterReward → Answer →
// reply frame loop (spec.md §6) on a connection whose handshake Dial has
// already sent, against the same agent instance
// until the connection fails, so a reconnect resumes with every learned
// rule intact.
func serve(conn *transport.Conn, agent *cryptolalia.Agent, view *display.Display) error {
	first := true
	for {
		reward, err := conn.ReadReward()
		if err != nil {
			return fmt.Errorf("read reward: %w", err)
		}

		if first {
			// The first reward has no prior action to refer to and is
			// discarded (spec.md §6).
			first = false
		} else if err := agent.RegisterReward(reward, false); err != nil {
			return fmt.Errorf("register reward: %w", err)
		}

		ch, err := conn.ReadChar()
		if err != nil {
			return fmt.Errorf("read char: %w", err)
		}

		reply := agent.Answer(ch)
		if err := conn.SendReply(reply); err != nil {
			return fmt.Errorf("send reply: %w", err)
		}

		if view != nil {
			view.Observe(reward, ch, reply)
			st := agent.Stats()
			ruleCount := st.MappingOutputs + st.CharGenericRules + st.WordGenericRules + st.SizeRules + st.MathRules
			view.Footer(st.Ticks, ruleCount)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func nextBackoff(d time.Duration) time.Duration {
	d *= 2
	if d > maxBackoff {
		d = maxBackoff
	}
	return d
}

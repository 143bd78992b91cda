// Command simulate drives a running server with scripted players. It
// connects N WebSocket clients, has the first create a room and the rest
// join it, starts the chosen game, and plays it to completion, printing
// the events each bot receives. Useful for smoke testing a server and for
// generating realistic traffic during development.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/urfave/cli/v3"

	"github.com/kyudori/minigame-party/game/engine"
	"github.com/kyudori/minigame-party/game/room"
	"github.com/kyudori/minigame-party/transport/websocket"
)

func main() {
	cmd := &cli.Command{
		Name:  "simulate",
		Usage: "connect scripted players to a server and play one game",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "server",
				Usage: "WebSocket endpoint of the server",
				Value: "ws://localhost:8080/ws",
			},
			&cli.IntFlag{
				Name:  "players",
				Usage: "number of bots to connect",
				Value: 3,
			},
			&cli.StringFlag{
				Name:  "variant",
				Usage: "game to play (reaction or gamble)",
				Value: "reaction",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "give up if the game has not finished by then",
				Value: 3 * time.Minute,
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	players := int(cmd.Int("players"))
	if players < 1 {
		return fmt.Errorf("need at least 1 player, got %d", players)
	}
	variant, ok := engine.ParseVariant(cmd.String("variant"))
	if !ok {
		return fmt.Errorf("unknown variant %q", cmd.String("variant"))
	}

	ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
	defer cancel()

	server := cmd.String("server")
	bots := make([]*bot, 0, players)
	defer func() {
		for _, b := range bots {
			b.close()
		}
	}()

	for i := 0; i < players; i++ {
		b, err := dial(ctx, server, fmt.Sprintf("bot-%d", i+1))
		if err != nil {
			return fmt.Errorf("failed to connect %s: %w", fmt.Sprintf("bot-%d", i+1), err)
		}
		bots = append(bots, b)
	}

	host := bots[0]
	code, err := host.createRoom(ctx)
	if err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	log.Printf("%s created room %s", host.name, code)

	for _, b := range bots[1:] {
		if err := b.joinRoom(ctx, code); err != nil {
			return fmt.Errorf("%s join room: %w", b.name, err)
		}
		log.Printf("%s joined room %s", b.name, code)
	}

	done := make(chan error, len(bots))
	for _, b := range bots {
		go func(b *bot) {
			done <- b.play(ctx, code, variant)
		}(b)
	}

	host.send(websocket.Action{Action: websocket.ActionStartGame, Code: code, Variant: string(variant)})

	for range bots {
		select {
		case err := <-done:
			if err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	log.Printf("game finished")
	return nil
}

// serverEvent is the outbound envelope as the bot sees it.
type serverEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// bot is one scripted player on its own WebSocket connection.
type bot struct {
	name string
	conn *gws.Conn

	// Events decoded from a batched message but not yet consumed.
	pending []serverEvent
}

func dial(ctx context.Context, server, name string) (*bot, error) {
	conn, _, err := gws.DefaultDialer.DialContext(ctx, server, nil)
	if err != nil {
		return nil, err
	}
	return &bot{name: name, conn: conn}, nil
}

func (b *bot) close() {
	b.conn.Close()
}

func (b *bot) send(act websocket.Action) {
	if err := b.conn.WriteJSON(act); err != nil {
		log.Printf("%s: write failed: %v", b.name, err)
	}
}

// readEvent returns the next event from the connection. The server joins
// queued events into one message with newline separators, so a single
// read may yield several events; extras are held until consumed.
func (b *bot) readEvent(ctx context.Context) (serverEvent, error) {
	for len(b.pending) == 0 {
		if deadline, ok := ctx.Deadline(); ok {
			b.conn.SetReadDeadline(deadline)
		}
		_, raw, err := b.conn.ReadMessage()
		if err != nil {
			return serverEvent{}, err
		}
		for _, part := range bytes.Split(raw, []byte{'\n'}) {
			if len(bytes.TrimSpace(part)) == 0 {
				continue
			}
			var env serverEvent
			if err := json.Unmarshal(part, &env); err != nil {
				return serverEvent{}, fmt.Errorf("bad event %q: %w", part, err)
			}
			b.pending = append(b.pending, env)
		}
	}

	env := b.pending[0]
	b.pending = b.pending[1:]
	return env, nil
}

// next reads events until one matching the given name arrives, discarding
// everything else. Deadlines come from ctx.
func (b *bot) next(ctx context.Context, event string) (json.RawMessage, error) {
	for {
		env, err := b.readEvent(ctx)
		if err != nil {
			return nil, err
		}
		if env.Event == event {
			return env.Data, nil
		}
	}
}

func (b *bot) createRoom(ctx context.Context) (string, error) {
	b.send(websocket.Action{Action: websocket.ActionCreateRoom, Name: b.name})

	data, err := b.next(ctx, websocket.EventCreateRoomResult)
	if err != nil {
		return "", err
	}
	var ack websocket.CreateRoomResult
	if err := json.Unmarshal(data, &ack); err != nil {
		return "", err
	}
	if !ack.Success {
		return "", fmt.Errorf("server refused: %s", ack.Message)
	}
	return ack.Code, nil
}

func (b *bot) joinRoom(ctx context.Context, code string) error {
	b.send(websocket.Action{Action: websocket.ActionJoinRoom, Name: b.name, Code: code})

	data, err := b.next(ctx, websocket.EventJoinRoomResult)
	if err != nil {
		return err
	}
	var ack websocket.JoinRoomResult
	if err := json.Unmarshal(data, &ack); err != nil {
		return err
	}
	if !ack.Success {
		return fmt.Errorf("server refused: %s", ack.Message)
	}
	return nil
}

func (b *bot) play(ctx context.Context, code string, variant engine.Variant) error {
	switch variant {
	case engine.VariantReaction:
		return b.playReaction(ctx, code)
	case engine.VariantGamble:
		return b.playGamble(ctx, code)
	default:
		return fmt.Errorf("unknown variant %q", variant)
	}
}

func (b *bot) playReaction(ctx context.Context, code string) error {
	if _, err := b.next(ctx, room.EventGameGo); err != nil {
		return fmt.Errorf("%s waiting for go: %w", b.name, err)
	}

	// Humans do not press instantly
	time.Sleep(time.Duration(50+rand.IntN(300)) * time.Millisecond)
	b.send(websocket.Action{Action: websocket.ActionClickButton, Code: code})

	data, err := b.next(ctx, room.EventGameResult)
	if err != nil {
		return fmt.Errorf("%s waiting for result: %w", b.name, err)
	}

	var ranking []room.RankedEntry
	if err := json.Unmarshal(data, &ranking); err != nil {
		return err
	}
	for i, entry := range ranking {
		if entry.ElapsedMs != nil {
			log.Printf("%s saw rank %d: %s %dms", b.name, i+1, entry.Name, *entry.ElapsedMs)
		} else {
			log.Printf("%s saw rank %d: %s disqualified", b.name, i+1, entry.Name)
		}
	}
	return nil
}

var symbols = []engine.Symbol{engine.SymbolA, engine.SymbolB, engine.SymbolC}

func (b *bot) playGamble(ctx context.Context, code string) error {
	for {
		env, err := b.readEvent(ctx)
		if err != nil {
			return fmt.Errorf("%s reading: %w", b.name, err)
		}

		switch env.Event {
		case room.EventGambleRoundStart:
			sym := symbols[rand.IntN(len(symbols))]
			b.send(websocket.Action{Action: websocket.ActionGambleChoose, Code: code, Symbol: string(sym)})

		case room.EventGambleRoundResult:
			var result room.RoundResult
			if err := json.Unmarshal(env.Data, &result); err != nil {
				return err
			}
			for _, row := range result.Scores {
				log.Printf("%s saw round %d: %s +%d (total %d)", b.name, result.Round, row.Name, row.Payout, row.Total)
			}

		case room.EventGambleFinal:
			var final []room.FinalEntry
			if err := json.Unmarshal(env.Data, &final); err != nil {
				return err
			}
			for i, row := range final {
				log.Printf("%s saw final rank %d: %s %d points", b.name, i+1, row.Name, row.Score)
			}
			return nil
		}
	}
}

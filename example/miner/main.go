package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hargrave81/minesharp-go/entity"
	"github.com/hargrave81/minesharp-go/handler"
	"github.com/hargrave81/minesharp-go/interact"
	"github.com/hargrave81/minesharp-go/session"
	"github.com/hargrave81/minesharp-go/settings"
	"github.com/hargrave81/minesharp-go/world"
	"github.com/sirupsen/logrus"
)

// The following program connects to a server that already completed login on
// the other end of the address passed (e.g. an offline-mode test server
// behind an auth proxy), keeps its world in sync and mines the block at the
// coordinates passed.
func main() {
	if len(os.Args) < 5 {
		fmt.Println("Usage: ./miner <addr> <x> <y> <z>")
		return
	}

	log := logrus.New()
	log.Formatter = &logrus.TextFormatter{ForceColors: true}
	log.Level = logrus.DebugLevel

	cfg, err := settings.Read("minesharp.toml")
	if err != nil {
		log.Fatalf("read settings: %v", err)
	}

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			log.Fatalf("init sentry: %v", err)
		}
		defer sentry.Flush(time.Second * 5)
	}

	if os.Getenv("PPROF_ENABLED") != "" {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr("localhost:8080"))

		mgr := statsview.New()
		go mgr.Start()
	}

	conn, err := net.Dial("tcp", os.Args[1])
	if err != nil {
		log.Fatalf("dial %s: %v", os.Args[1], err)
	}

	s := session.New(log, conn, cfg.Connection.Protocol)
	if cfg.Connection.CompressionThreshold >= 0 {
		s.SetCompression(cfg.Connection.CompressionThreshold)
	}

	w := world.New(log, world.Overworld)
	acks := handler.Register(log, s, w)
	s.Start()
	defer s.Close()

	actor := entity.NewActor()
	actor.SetPosition(mgl32.Vec3{0, 64, 0})
	actor.MarkReady()

	in := interact.New(interact.Config{
		Log:          log,
		World:        w,
		Actor:        actor,
		Conn:         s,
		Acks:         acks,
		Seq:          &interact.Sequence{},
		AckTimeout:   time.Duration(cfg.Interaction.AckTimeoutMS) * time.Millisecond,
		SwingCadence: time.Duration(cfg.Interaction.SwingCadenceMS) * time.Millisecond,
	})

	var pos cube.Pos
	if _, err := fmt.Sscanf(os.Args[2]+" "+os.Args[3]+" "+os.Args[4], "%d %d %d", &pos[0], &pos[1], &pos[2]); err != nil {
		log.Fatalf("parse target position: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := actor.WaitReady(ctx); err != nil {
		log.Fatalf("actor never initialized: %v", err)
	}
	if err := w.AwaitChunk(ctx, world.ChunkPosFromBlock(pos)); err != nil {
		log.Fatalf("target chunk never loaded: %v", err)
	}

	outcome, err := in.Mine(ctx, pos, cube.FaceUp)
	if err != nil {
		log.Fatalf("mine %v: %v", pos, err)
	}
	log.Infof("mining %v settled: %s", pos, outcome)
}

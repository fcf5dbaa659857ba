// Pickvision runs the detection-to-actuation pipeline: webcam frames
// through a YOLO model, new items matched against the pressure table
// and handed to the PLC with the write/pulse handshake, with optional
// UDP telemetry and an operator dashboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"gocv.io/x/gocv"

	"github.com/pickpoint/go-pickvision/internal/config"
	"github.com/pickpoint/go-pickvision/internal/log"
	"github.com/pickpoint/go-pickvision/pkg/actuation"
	"github.com/pickpoint/go-pickvision/pkg/camera"
	"github.com/pickpoint/go-pickvision/pkg/detect"
	"github.com/pickpoint/go-pickvision/pkg/device"
	"github.com/pickpoint/go-pickvision/pkg/pressure"
	"github.com/pickpoint/go-pickvision/pkg/telemetry"
	"github.com/pickpoint/go-pickvision/pkg/web"
)

func main() {
	// .env is optional; flags and real env still apply
	_ = godotenv.Load()

	var (
		tablePath = flag.String("table", "item_data.json", "label to pressure mapping file")
		modelPath = flag.String("model", "models/yolov8s.onnx", "YOLO ONNX model path")
		threshold = flag.Float64("conf", 0.6, "minimum detection confidence")
		sendPLC   = flag.Bool("plc", false, "enable PLC handshake output")
		sendUDP   = flag.Bool("udp", false, "enable UDP telemetry output")
		webAddr   = flag.String("web", "", "dashboard listen address (empty = disabled)")
		display   = flag.Bool("display", true, "show the annotated camera window")
		repeat    = flag.Bool("repeat", false, "emit one event per detection per frame instead of once per label")
		logLevel  = flag.String("log", "info", "log level: debug, info, warn, error")
	)
	flag.Parse()
	log.Init(*logLevel)

	if err := run(*tablePath, *modelPath, *threshold, *sendPLC, *sendUDP, *webAddr, *display, *repeat); err != nil {
		log.Error("session failed", "err", err)
		os.Exit(1)
	}
}

func run(tablePath, modelPath string, threshold float64, sendPLC, sendUDP bool, webAddr string, display, repeat bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	table, err := pressure.Load(tablePath)
	if err != nil {
		return err
	}

	yoloCfg := detect.DefaultYOLOConfig()
	yoloCfg.ModelPath = modelPath
	yoloCfg.ConfidenceThresh = float32(threshold)
	detector, err := detect.NewYOLO(yoloCfg)
	if err != nil {
		return err
	}
	defer detector.Close()

	camCfg := camera.DefaultConfig()
	camCfg.DeviceIndex = config.CameraIndex()
	src, err := camera.Open(camCfg)
	if err != nil {
		return err
	}
	defer src.Close()

	var deviceSink actuation.DeviceSink
	if sendPLC {
		chCfg := device.DefaultChannelConfig()
		chCfg.Dwell = config.Dwell()
		deviceSink = device.NewChannel(device.NewGatewayWriter(config.GatewayAddr()), chCfg)
		log.Info("PLC output enabled", "gateway", config.GatewayAddr(), "dwell", chCfg.Dwell)
	}

	var datagramSink actuation.DatagramSink
	if sendUDP {
		sink, err := telemetry.NewUDPSink(config.PeerAddr())
		if err != nil {
			return err
		}
		defer sink.Close()
		datagramSink = sink
		log.Info("telemetry output enabled", "peer", config.PeerAddr())
	}

	summary := actuation.NewSummary()
	dispatcher := actuation.NewDispatcher(deviceSink, datagramSink, summary)
	tracker := actuation.NewTracker(table, actuation.TrackerConfig{RepeatMode: repeat})
	runner := actuation.NewRunner(src, detector, tracker, dispatcher)

	if webAddr != "" {
		dash := web.NewServer(webAddr, summary, sendPLC, sendUDP)
		dispatcher.OnDispatch = dash.ObserveDispatch
		go func() {
			if err := dash.Start(); err != nil {
				log.Error("dashboard stopped", "err", err)
			}
		}()
		defer dash.Shutdown()
	}

	if display {
		window := gocv.NewWindow("PickVision")
		defer window.Close()
		runner.OnFrame = func(frame *gocv.Mat, dets []detect.Detection) bool {
			detect.Annotate(frame, dets)
			window.IMShow(*frame)
			return window.WaitKey(1) != 'q'
		}
	}

	if err := runner.Run(ctx); err != nil {
		return err
	}

	fmt.Println()
	fmt.Print(summary.String())
	return nil
}

// Presence watches the camera for any object and mirrors the presence
// state to a PLC coil over Modbus TCP, for triggering downstream
// automation such as a robot routine.
package main

import (
	"context"
	"flag"
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
	"github.com/pickpoint/go-pickvision/pkg/presence"
	"github.com/pickpoint/go-pickvision/pkg/web"
)

func main() {
	_ = godotenv.Load()

	var (
		modelPath = flag.String("model", "models/yolov8s.onnx", "YOLO ONNX model path")
		threshold = flag.Float64("conf", 0.6, "minimum detection confidence")
		sendPLC   = flag.Bool("plc", true, "enable Modbus coil output")
		coilAddr  = flag.Uint("coil", 1, "coil address for the presence state")
		unitID    = flag.Uint("unit", 1, "Modbus unit identifier")
		webAddr   = flag.String("web", "", "dashboard listen address (empty = disabled)")
		display   = flag.Bool("display", true, "show the annotated camera window")
		logLevel  = flag.String("log", "info", "log level: debug, info, warn, error")
	)
	flag.Parse()
	log.Init(*logLevel)

	if err := run(*modelPath, *threshold, *sendPLC, uint16(*coilAddr), byte(*unitID), *webAddr, *display); err != nil {
		log.Error("session failed", "err", err)
		os.Exit(1)
	}
}

func run(modelPath string, threshold float64, sendPLC bool, coilAddr uint16, unitID byte, webAddr string, display bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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

	var coil presence.CoilWriter
	if sendPLC {
		mb := device.NewModbusCoil(config.ModbusAddr(), unitID)
		defer mb.Close()
		coil = mb
		log.Info("Modbus output enabled", "addr", config.ModbusAddr(), "coil", coilAddr)
	}
	monitor := presence.NewMonitor(coil, coilAddr)

	if webAddr != "" {
		dash := web.NewServer(webAddr, actuation.NewSummary(), sendPLC, false)
		monitor.OnChange = dash.ObservePresence
		go func() {
			if err := dash.Start(); err != nil {
				log.Error("dashboard stopped", "err", err)
			}
		}()
		defer dash.Shutdown()
	}

	var window *gocv.Window
	if display {
		window = gocv.NewWindow("Presence")
		defer window.Close()
	}

	for {
		select {
		case <-ctx.Done():
			log.Info("stopped", "reason", "cancelled")
			return nil
		default:
		}

		frame, err := src.Read()
		if err != nil {
			log.Info("stopped", "reason", "source exhausted")
			return nil
		}

		dets, err := detector.Detect(frame)
		if err != nil {
			frame.Close()
			return err
		}

		// Coil write failures are logged by the monitor and non-fatal
		monitor.Observe(ctx, len(dets) > 0)

		if window != nil {
			detect.Annotate(&frame, dets)
			window.IMShow(frame)
			if key := window.WaitKey(1); key == 'q' || key == 'Q' {
				frame.Close()
				log.Info("stopped", "reason", "operator quit")
				return nil
			}
		}
		frame.Close()
	}
}

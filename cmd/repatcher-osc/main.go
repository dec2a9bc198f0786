package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mastercactapus/repatcher-osc/bridge"
	"github.com/mastercactapus/repatcher-osc/config"
	"github.com/mastercactapus/repatcher-osc/logging"
	"github.com/mastercactapus/repatcher-osc/metrics"
	"github.com/mastercactapus/repatcher-osc/monitor"
	"github.com/mastercactapus/repatcher-osc/osc"
	"github.com/mastercactapus/repatcher-osc/repatcher"
	"github.com/mastercactapus/repatcher-osc/serialport"
	"github.com/sirupsen/logrus"
)

const version = "1.0.0"

func main() {
	log := logging.New("main")

	cfgFile := flag.String("config", "", "Path to a TOML config file.")
	addr := flag.String("addr", "127.0.0.1", "The IP address for publishing OSC messages.")
	port := flag.Int("port", 12000, "The port for publishing OSC messages.")
	usbPort := flag.String("usb_port", "/dev/ttyACM0", "rePatcher USB port.")
	usbRate := flag.Int("usb_rate", 38400, "rePatcher baud rate.")
	protocol := flag.String("protocol", config.ProtocolFrame, "Device framing: 'frame' or 'block'.")
	monitorAddr := flag.String("monitor", "", "Address to serve the HTTP monitor on (disabled if empty).")
	replay := flag.String("replay", "", "Replay events logged one per line from a file instead of reading the device.")
	verbose := flag.Bool("v", false, "Print parsed rePatcher data as it is read in.")
	showVersion := flag.Bool("version", false, "Print the version and exit.")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		return
	}

	cfg := config.Default()
	if *cfgFile != "" {
		var err error
		cfg, err = config.Load(*cfgFile)
		if err != nil {
			log.Fatal(err)
		}
	}

	// flags given on the command line win over the file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.OSC.Host = *addr
		case "port":
			cfg.OSC.Port = *port
		case "usb_port":
			cfg.Serial.Port = *usbPort
		case "usb_rate":
			cfg.Serial.Baud = *usbRate
		case "protocol":
			cfg.Decoder.Protocol = *protocol
		case "monitor":
			cfg.Monitor.Addr = *monitorAddr
		case "v":
			cfg.Log.Verbose = *verbose
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	if err := logging.ParseLevel(cfg.LogLevel()); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		// a second signal kills the process
		<-ctx.Done()
		stop()
	}()

	if err := run(ctx, cfg, *replay); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Error("stopped")
		os.Exit(1)
	}
	log.Info("shutting down")
}

func newDecoder(protocol string) repatcher.FrameDecoder {
	if protocol == config.ProtocolBlock {
		return repatcher.NewBlockDecoder()
	}
	return repatcher.NewDecoder()
}

func openSource(log *logrus.Entry, cfg config.Config, replay string) (io.ReadCloser, repatcher.FrameDecoder, error) {
	if replay != "" {
		log.Infof("Replaying events from %s", replay)
		src, err := openReplay(replay)
		return src, repatcher.NewDecoder(), err
	}

	log.Infof("Opening rePatcher connection at %s (%d baud)", cfg.Serial.Port, cfg.Serial.Baud)
	src, err := serialport.Open(serialport.Config{Name: cfg.Serial.Port, Baud: cfg.Serial.Baud})
	return src, newDecoder(cfg.Decoder.Protocol), err
}

func run(ctx context.Context, cfg config.Config, replay string) error {
	log := logging.New("main")
	metrics.Register()

	log.Infof("Publishing OSC at %s:%d", cfg.OSC.Host, cfg.OSC.Port)
	pub := osc.NewPublisher(osc.NewClient(cfg.OSC.Host, cfg.OSC.Port))

	src, dec, err := openSource(log, cfg, replay)
	if err != nil {
		return err
	}

	var opts []bridge.Option
	if cfg.Monitor.Addr != "" {
		mon := monitor.New()
		defer mon.Close()
		opts = append(opts, bridge.WithObserver(mon))

		srv := &http.Server{Addr: cfg.Monitor.Addr, Handler: mon}
		go func() {
			log.Infof("Serving monitor on %s", cfg.Monitor.Addr)
			err := srv.ListenAndServe()
			if err != nil && err != http.ErrServerClosed {
				log.WithError(err).Error("monitor")
			}
		}()
		defer srv.Close()
	}

	err = bridge.New(src, dec, pub, opts...).Run(ctx)
	if replay != "" && errors.Is(err, io.EOF) {
		log.Info("replay finished")
		return nil
	}
	return err
}

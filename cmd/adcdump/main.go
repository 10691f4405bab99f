// Package main dumps raw sample sets from an attached capture device.
//
// adcdump opens the device by vendor/product ID, claims the capture
// interface's bulk IN endpoint, and reads whole sample sets to a file.
// Each sample set is a fixed number of single-byte readings; the stream
// carries no framing, so the set size here must match the firmware.
//
// Usage:
//
//	adcdump [options]
//
// Options:
//
//	-vid id      Vendor ID of the device (default: 0x2e8a)
//	-pid id      Product ID of the device (default: 0x0003)
//	-itf n       Interface number carrying sample sets (default: 0)
//	-ep n        Bulk IN endpoint number on that interface (default: 1)
//	-samples n   Readings per sample set (default: 500)
//	-sets n      Number of sample sets to read (default: 100)
//	-out path    Output file (default: capture.bin)
//	-v           Enable verbose (debug) logging
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/cheggaaa/pb/v3"
	"github.com/google/gousb"

	"github.com/thinpv/pico-usb-adc/pkg"
)

// component identifies this executable for structured logging.
const component = pkg.ComponentTool

func main() {
	vid := flag.Uint("vid", 0x2e8a, "vendor ID of the device")
	pid := flag.Uint("pid", 0x0003, "product ID of the device")
	itf := flag.Int("itf", 0, "interface number carrying sample sets")
	ep := flag.Int("ep", 1, "bulk IN endpoint number on that interface")
	samples := flag.Int("samples", 500, "readings per sample set")
	sets := flag.Int("sets", 100, "number of sample sets to read")
	out := flag.String("out", "capture.bin", "output file")
	verbose := flag.Bool("v", false, "enable verbose (debug) logging")
	flag.Parse()

	pkg.SetLogLevel(slog.LevelInfo)
	if *verbose {
		pkg.SetLogLevel(slog.LevelDebug)
	}

	ctx := gousb.NewContext()
	defer ctx.Close()

	dev, err := ctx.OpenDeviceWithVIDPID(gousb.ID(*vid), gousb.ID(*pid))
	if err != nil {
		pkg.LogError(component, "failed to open device", "error", err)
		os.Exit(1)
	}
	if dev == nil {
		pkg.LogError(component, "device not found",
			"vid", *vid, "pid", *pid)
		os.Exit(1)
	}
	defer dev.Close()

	if err := dev.SetAutoDetach(true); err != nil {
		pkg.LogError(component, "failed to detach kernel driver", "error", err)
		os.Exit(1)
	}

	cfg, err := dev.Config(1)
	if err != nil {
		pkg.LogError(component, "failed to claim configuration", "error", err)
		os.Exit(1)
	}
	defer cfg.Close()

	iface, err := cfg.Interface(*itf, 0)
	if err != nil {
		pkg.LogError(component, "failed to claim interface",
			"interface", *itf, "error", err)
		os.Exit(1)
	}
	defer iface.Close()

	in, err := iface.InEndpoint(*ep)
	if err != nil {
		pkg.LogError(component, "failed to open IN endpoint",
			"endpoint", *ep, "error", err)
		os.Exit(1)
	}

	f, err := os.Create(*out)
	if err != nil {
		pkg.LogError(component, "failed to create output file", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	pkg.LogInfo(component, "reading sample sets",
		"sets", *sets,
		"samples", *samples,
		"out", *out)

	bar := pb.StartNew(*sets)
	buf := make([]byte, *samples)
	for i := 0; i < *sets; i++ {
		// Accumulate one whole set; bulk reads may return short.
		filled := 0
		for filled < len(buf) {
			n, err := in.Read(buf[filled:])
			if err != nil {
				pkg.LogError(component, "read failed",
					"set", i, "error", err)
				os.Exit(1)
			}
			filled += n
		}
		if _, err := f.Write(buf); err != nil {
			pkg.LogError(component, "write failed", "error", err)
			os.Exit(1)
		}
		bar.Increment()
	}
	bar.Finish()

	pkg.LogInfo(component, "done",
		"bytes", (*sets)*(*samples))
}

// Command jpegenc compresses an image file to baseline JPEG using the
// offload pipeline. The input's width and height must be multiples of 8.
package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/acceljpeg/go-jpegenc"
)

func main() {
	quality := flag.Int("quality", jpegenc.DefaultQuality, "encoding quality (1-100)")
	output := flag.String("o", "out.jpg", "output file")
	verbose := flag.Bool("v", false, "log per-stage diagnostics to stderr")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] input-image\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	in, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	defer in.Close()

	img, format, err := image.Decode(in)
	if err != nil {
		log.Fatalf("decoding %s: %v", flag.Arg(0), err)
	}

	opts := &jpegenc.Options{Quality: *quality}
	if *verbose {
		opts.Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	out, err := os.Create(*output)
	if err != nil {
		log.Fatal(err)
	}
	if err := jpegenc.Encode(out, img, opts); err != nil {
		out.Close()
		os.Remove(*output)
		log.Fatalf("encoding: %v", err)
	}
	if err := out.Close(); err != nil {
		log.Fatal(err)
	}

	st, err := os.Stat(*output)
	if err != nil {
		log.Fatal(err)
	}
	bounds := img.Bounds()
	fmt.Printf("%s (%s, %dx%d) -> %s (%d bytes)\n",
		flag.Arg(0), format, bounds.Dx(), bounds.Dy(), *output, st.Size())
}

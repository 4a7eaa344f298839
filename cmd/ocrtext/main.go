// Command ocrtext recognizes a page image and writes an hOCR document plus a
// plain-text transcript for a downstream PDF text-layer embedder.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/cwhispergo13-cmyk/pdf-ocr-service/hocr"
	"github.com/cwhispergo13-cmyk/pdf-ocr-service/observability"
	"github.com/cwhispergo13-cmyk/pdf-ocr-service/ocr"
	"github.com/cwhispergo13-cmyk/pdf-ocr-service/ocr/tesseract"
	"github.com/cwhispergo13-cmyk/pdf-ocr-service/ocr/vision"
)

type options struct {
	imagePath string
	hocrPath  string
	textPath  string
	engine    string
	langs     string
	verify    bool
	verbose   bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ocrtext: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "ocrtext: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: ocrtext -image <file> -hocr <file> -text <file> [flags]\n")
		flag.PrintDefaults()
	}
	flag.StringVar(&opts.imagePath, "image", "", "path to the source page image")
	flag.StringVar(&opts.hocrPath, "hocr", "", "path to write the hOCR document")
	flag.StringVar(&opts.textPath, "text", "", "path to write the plain-text transcript")
	flag.StringVar(&opts.engine, "engine", "vision", "ocr engine: vision or tesseract")
	flag.StringVar(&opts.langs, "langs", "", "comma-separated language hints")
	flag.BoolVar(&opts.verify, "verify", false, "re-parse the generated hOCR and report node counts")
	flag.BoolVar(&opts.verbose, "verbose", false, "enable debug logging")
	flag.Parse()

	if opts.imagePath == "" || opts.hocrPath == "" || opts.textPath == "" {
		return opts, fmt.Errorf("-image, -hocr and -text are required")
	}
	return opts, nil
}

func run(opts options) error {
	// .env is optional; real environment variables win when both are set.
	_ = godotenv.Load()

	log := logrus.New()
	if opts.verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	engine, err := buildEngine(opts, observability.NewLogrusLogger(log))
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"engine":  engine.Name(),
		"version": engine.Version(),
		"image":   opts.imagePath,
	}).Info("running ocr")

	if err := engine.GenerateHOCR(context.Background(), opts.imagePath, opts.hocrPath, opts.textPath); err != nil {
		return err
	}

	if opts.verify {
		return verifyOutput(opts.hocrPath, log)
	}
	return nil
}

func buildEngine(opts options, logger observability.Logger) (ocr.Engine, error) {
	var hints []string
	if opts.langs != "" {
		hints = strings.Split(opts.langs, ",")
	}

	switch opts.engine {
	case "vision":
		vopts := []vision.Option{vision.WithLogger(logger)}
		if len(hints) > 0 {
			vopts = append(vopts, vision.WithLanguageHints(hints...))
		}
		return vision.New(vopts...), nil
	case "tesseract":
		if len(hints) > 0 {
			return tesseract.New(tesseract.WithLanguages(hints...)), nil
		}
		return tesseract.New(), nil
	default:
		return nil, fmt.Errorf("unknown engine %q", opts.engine)
	}
}

func verifyOutput(path string, log *logrus.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open hocr output: %w", err)
	}
	defer f.Close()

	doc, err := hocr.ParseDocument(f)
	if err != nil {
		return fmt.Errorf("verify hocr output: %w", err)
	}
	log.WithFields(logrus.Fields{
		"pages":      len(doc.ByClass(hocr.ClassPage)),
		"blocks":     len(doc.ByClass(hocr.ClassBlock)),
		"paragraphs": len(doc.ByClass(hocr.ClassParagraph)),
		"lines":      len(doc.ByClass(hocr.ClassLine)),
		"words":      len(doc.ByClass(hocr.ClassWord)),
	}).Info("hocr verified")
	return nil
}

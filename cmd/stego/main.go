package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"lsb-steganography/audio"
	"lsb-steganography/config"
	"lsb-steganography/crypto"
	"lsb-steganography/models"
	"lsb-steganography/pixels"
	"lsb-steganography/service"
)

const usage = `Usage: stego <command> [flags]

Commands:
  img-embed    hide a file in an image      (--cover --in --out [--key] [--encrypt])
  img-extract  recover a file from an image (--stego --out [--key] [--decrypt])
  aud-embed    hide a file in audio         (--cover --in --out [--key] [--encrypt])
  aud-extract  recover a file from audio    (--stego --out [--key] [--decrypt])
  capacity     report how much a cover holds (--cover [--encrypt])
`

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	svc := service.NewStegoService(audio.NewAudioDecoder(cfg.FFmpegPath), cfg.MinPSNR)
	ctx := context.Background()

	switch os.Args[1] {
	case "img-embed":
		err = runEmbed(ctx, svc, models.CarrierImage, os.Args[2:])
	case "img-extract":
		err = runExtract(ctx, svc, models.CarrierImage, os.Args[2:])
	case "aud-embed":
		err = runEmbed(ctx, svc, models.CarrierAudio, os.Args[2:])
	case "aud-extract":
		err = runExtract(ctx, svc, models.CarrierAudio, os.Args[2:])
	case "capacity":
		err = runCapacity(ctx, svc, os.Args[2:])
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runEmbed(ctx context.Context, svc *service.StegoService, kind models.CarrierKind, args []string) error {
	cmd := flag.NewFlagSet(string(kind)+"-embed", flag.ExitOnError)
	cover := cmd.String("cover", "", "Path to the cover file")
	in := cmd.String("in", "", "Path to the file to hide")
	out := cmd.String("out", "", "Path of the stego file to write")
	key := cmd.String("key", "", "Stego key (prompted for when omitted)")
	encrypt := cmd.Bool("encrypt", false, "Encrypt the payload before embedding")
	cmd.Parse(args)

	if *cover == "" || *in == "" || *out == "" {
		return fmt.Errorf("--cover, --in and --out are required")
	}
	if err := checkKind(kind, *cover); err != nil {
		return err
	}

	k, err := readKey(*key)
	if err != nil {
		return err
	}

	outputPath, report, err := svc.EmbedFile(ctx, *cover, *in, *out, k, *encrypt)
	if err != nil {
		return err
	}

	fmt.Printf("Stego %s written to %s\n", kind, outputPath)
	fmt.Printf("  Capacity: %d bytes\n", report.MaxPayload)
	fmt.Printf("  Frame:    %d bits over %d channel values\n", report.FrameBits, report.Channels)
	fmt.Printf("  PSNR:     %.2f dB\n", report.PSNR)
	return nil
}

func runExtract(ctx context.Context, svc *service.StegoService, kind models.CarrierKind, args []string) error {
	cmd := flag.NewFlagSet(string(kind)+"-extract", flag.ExitOnError)
	stegoPath := cmd.String("stego", "", "Path to the stego file")
	out := cmd.String("out", "", "Path of the recovered file")
	key := cmd.String("key", "", "Stego key (prompted for when omitted)")
	decrypt := cmd.Bool("decrypt", false, "Decrypt the payload after extraction")
	cmd.Parse(args)

	if *stegoPath == "" || *out == "" {
		return fmt.Errorf("--stego and --out are required")
	}
	if err := checkKind(kind, *stegoPath); err != nil {
		return err
	}

	k, err := readKey(*key)
	if err != nil {
		return err
	}

	payload, outputPath, err := svc.ExtractFile(ctx, *stegoPath, *out, k, *decrypt)
	if err != nil {
		return err
	}

	fmt.Printf("Recovered %d bytes to %s\n", len(payload), outputPath)
	return nil
}

func runCapacity(ctx context.Context, svc *service.StegoService, args []string) error {
	cmd := flag.NewFlagSet("capacity", flag.ExitOnError)
	cover := cmd.String("cover", "", "Path to the cover file")
	encrypt := cmd.Bool("encrypt", false, "Account for encryption overhead")
	cmd.Parse(args)

	if *cover == "" {
		return fmt.Errorf("--cover is required")
	}

	report, err := svc.Capacity(ctx, *cover, *encrypt)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %s carrier, %d channel values, up to %d payload bytes\n",
		filepath.Base(*cover), report.Kind, report.Channels, report.MaxPayload)
	return nil
}

func checkKind(kind models.CarrierKind, path string) error {
	isImage := pixels.IsImageExt(filepath.Ext(path))
	if kind == models.CarrierImage && !isImage {
		return fmt.Errorf("%s is not an image file", path)
	}
	if kind == models.CarrierAudio && isImage {
		return fmt.Errorf("%s is an image file, use the img- commands", path)
	}
	return nil
}

// readKey returns key, or prompts for one without echo when it is empty.
// Either way the key must pass crypto.ValidateKey.
func readKey(key string) (string, error) {
	if key == "" {
		fmt.Fprint(os.Stderr, "Key: ")
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("key read failed: %w", err)
		}
		key = strings.TrimRight(string(b), "\r\n")
	}

	if err := crypto.ValidateKey(key); err != nil {
		return "", fmt.Errorf("invalid key: %w", err)
	}
	return key, nil
}

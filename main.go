package main

import (
	"log"

	"lsb-steganography/audio"
	"lsb-steganography/config"
	"lsb-steganography/handlers"
	"lsb-steganography/service"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	audioDecoder := audio.NewAudioDecoder(cfg.FFmpegPath)
	if err := audioDecoder.CheckFFmpeg(); err != nil {
		log.Printf("Warning: ffmpeg not found at %q (%v); only WAV and MP3 audio covers are supported", cfg.FFmpegPath, err)
	} else {
		log.Printf("✓ ffmpeg found and ready for audio transcoding")
	}

	svc := service.NewStegoService(audioDecoder, cfg.MinPSNR)
	router := handlers.NewRouter(cfg, svc)

	log.Printf("Server starting on port %s", cfg.Port)
	log.Printf("API endpoints:")
	log.Printf("  POST /api/v1/stego/insert   - Hide a secret file in an image or audio cover (returns stego file)")
	log.Printf("  POST /api/v1/stego/extract  - Recover a secret file from a stego file")
	log.Printf("  POST /api/v1/stego/capacity - Report how many bytes a cover can hold")
	log.Printf("  GET  /api/v1/health         - Health check")
	log.Printf("")
	log.Printf("Features:")
	log.Printf("  • Keyed pseudorandom LSB embedding over RGB and PCM channels")
	log.Printf("  • Optional AES-256-GCM payload encryption")
	log.Printf("  • Lossless output: PNG/BMP/TIFF images, PCM WAV audio")
	log.Printf("  • PSNR quality assessment (returned in X-Stego-PSNR header)")

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

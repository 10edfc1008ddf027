// Command motion-render renders an animation document to a sequence of
// PNG frames.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"

	_ "image/jpeg"

	"github.com/gogpu/motion"
	"github.com/gogpu/motion/cache"
	"github.com/gogpu/motion/document"
	"github.com/gogpu/motion/engine"

	_ "github.com/gogpu/motion/engine/software"
	_ "github.com/gogpu/motion/engine/wgpu"
)

// assetCache keeps decoded images so documents referencing the same
// file several times decode it once.
var assetCache = cache.New[string, image.Image](64, cache.StringHasher)

func main() {
	var (
		docPath    = flag.String("doc", "", "animation document to render (JSON)")
		assetsDir  = flag.String("assets", "", "directory with image assets referenced by layer src")
		outDir     = flag.String("out", "frames", "output directory for PNG frames")
		frames     = flag.Int("frames", 0, "number of frames to render (0 = full range)")
		engineName = flag.String("engine", "", "engine to use (default: best available)")
	)
	flag.Parse()

	if *docPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	doc, err := document.Load(*docPath)
	if err != nil {
		log.Fatalf("Failed to load document: %v", err)
	}

	engineOpts := engine.Options{
		Label:  "motion-render",
		Width:  doc.Width,
		Height: doc.Height,
	}
	var conn engine.Conn
	if *engineName != "" {
		conn, err = engine.Open(*engineName, engineOpts)
	} else {
		conn, err = engine.OpenDefault(engineOpts)
	}
	if err != nil {
		log.Fatalf("Failed to open engine: %v", err)
	}
	log.Printf("Using %s engine", conn.Name())

	q := motion.NewRenderQueue(conn, motion.WithLabel("motion-render"), motion.WithLeakCheck())
	defer q.Close()

	playerOpts, err := assetOptions(doc, *assetsDir)
	if err != nil {
		log.Fatalf("Failed to load assets: %v", err)
	}

	p, err := motion.NewPlayer(q, doc, playerOpts...)
	if err != nil {
		log.Fatalf("Failed to attach player: %v", err)
	}
	defer p.Close()

	target, err := engine.NewTarget(doc.Width, doc.Height)
	if err != nil {
		log.Fatalf("Failed to create target: %v", err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	total := int(doc.OutPoint-doc.InPoint) + 1
	if *frames > 0 && *frames < total {
		total = *frames
	}

	for i := range total {
		frame := doc.InPoint + float64(i)
		if err := p.Seek(frame); err != nil {
			log.Fatalf("Failed to seek to frame %v: %v", frame, err)
		}
		if err := p.Render(target); err != nil {
			log.Fatalf("Failed to render frame %v: %v", frame, err)
		}

		name := filepath.Join(*outDir, fmt.Sprintf("frame_%04d.png", i))
		if err := savePNG(name, target); err != nil {
			log.Fatalf("Failed to save %s: %v", name, err)
		}
	}

	log.Printf("Rendered %d frames of %q to %s (%dx%d)", total, doc.Name, *outDir, doc.Width, doc.Height)
}

// assetOptions loads every image asset the document references from
// assetsDir. With no assets directory the document's image layers are
// left unresolved and render nothing.
func assetOptions(doc *document.Document, assetsDir string) ([]motion.PlayerOption, error) {
	if assetsDir == "" {
		return nil, nil
	}

	var opts []motion.PlayerOption
	seen := make(map[string]bool)
	for _, layer := range doc.Layers {
		if layer.Kind != document.KindImage || seen[layer.Src] {
			continue
		}
		seen[layer.Src] = true

		img, err := loadAsset(filepath.Join(assetsDir, layer.Src))
		if err != nil {
			return nil, fmt.Errorf("asset %q: %w", layer.Src, err)
		}
		opts = append(opts, motion.WithImage(layer.Src, img))
	}
	return opts, nil
}

func loadAsset(path string) (image.Image, error) {
	return assetCache.GetOrCreate(path, func() (image.Image, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		img, _, err := image.Decode(f)
		if err != nil {
			return nil, err
		}
		return img, nil
	})
}

func savePNG(path string, target *engine.Target) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := png.Encode(f, target.Image()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

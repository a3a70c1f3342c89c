// Package pptx renders decks as Office Open XML presentations.
package pptx

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dtroode/pitchdeck-server/internal/logger"
	"github.com/dtroode/pitchdeck-server/internal/model"
)

// FileName returns the download name of an exported deck.
func FileName(deck model.Deck) string {
	return deck.ID + ".pptx"
}

// Exporter writes decks as .pptx files.
type Exporter struct {
	images      ImageSource
	concurrency int
	logger      *logger.Logger
	now         func() time.Time
}

// NewExporter creates an exporter. A nil images source exports text only.
func NewExporter(images ImageSource, concurrency int, logger *logger.Logger) *Exporter {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Exporter{
		images:      images,
		concurrency: concurrency,
		logger:      logger.With("component", "pptx"),
		now:         time.Now,
	}
}

// Export writes deck to w using theme colors. Images that cannot be fetched
// or decoded are left out; slide text is always written.
func (e *Exporter) Export(ctx context.Context, deck model.Deck, theme model.Theme, w io.Writer) error {
	fetched, err := e.fetchImages(ctx, deck.Slides)
	if err != nil {
		return fmt.Errorf("failed to fetch slide images: %w", err)
	}

	zw := zip.NewWriter(w)
	if err := e.writePackage(zw, deck, theme, fetched); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish presentation: %w", err)
	}

	e.logger.Info("deck exported",
		"deck_id", deck.ID,
		"theme", theme.Name,
		"slides", len(deck.Slides),
		"images", len(fetched))

	return nil
}

// fetchImages downloads every distinct slide image once. Individual failures
// are logged and skipped; only context cancellation is returned.
func (e *Exporter) fetchImages(ctx context.Context, slides []model.Slide) (map[string]media, error) {
	out := make(map[string]media)
	if e.images == nil {
		return out, nil
	}

	urls := make([]string, 0, len(slides))
	seen := make(map[string]bool, len(slides))
	for _, s := range slides {
		if s.ImageURL == "" || seen[s.ImageURL] {
			continue
		}
		seen[s.ImageURL] = true
		urls = append(urls, s.ImageURL)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for _, url := range urls {
		url := url
		g.Go(func() error {
			data, err := e.images.Fetch(gctx, url)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				e.logger.Warn("skipping slide image", "url", url, "error", err)
				return nil
			}
			m, err := decodeMedia(data)
			if err != nil {
				e.logger.Warn("skipping slide image", "url", url, "error", err)
				return nil
			}
			mu.Lock()
			out[url] = m
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Exporter) writePackage(zw *zip.Writer, deck model.Deck, theme model.Theme, fetched map[string]media) error {
	n := len(deck.Slides)

	var notes []int
	for i, s := range deck.Slides {
		if s.SpeakerNotes != "" {
			notes = append(notes, i+1)
		}
	}

	parts := []struct {
		name, body string
	}{
		{"[Content_Types].xml", contentTypesXML(n, notes)},
		{"_rels/.rels", rootRelsXML()},
		{"docProps/core.xml", coreXML(deck, e.now())},
		{"docProps/app.xml", appXML(n, len(notes))},
		{"ppt/presentation.xml", presentationXML(n)},
		{"ppt/_rels/presentation.xml.rels", presentationRelsXML(n)},
		{"ppt/slideMasters/slideMaster1.xml", slideMasterXML()},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRelsXML()},
		{"ppt/slideLayouts/slideLayout1.xml", slideLayoutXML()},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", slideLayoutRelsXML()},
		{"ppt/notesMasters/notesMaster1.xml", notesMasterXML()},
		{"ppt/notesMasters/_rels/notesMaster1.xml.rels", notesMasterRelsXML()},
		{"ppt/theme/theme1.xml", themeXML("Pitchdeck", theme)},
		{"ppt/theme/theme2.xml", themeXML("Pitchdeck Notes", model.ThemeByName(model.DefaultTheme))},
		{"ppt/presProps.xml", presPropsXML()},
		{"ppt/viewProps.xml", viewPropsXML()},
		{"ppt/tableStyles.xml", tableStylesXML()},
	}
	for _, p := range parts {
		if err := writePart(zw, p.name, []byte(p.body)); err != nil {
			return err
		}
	}

	mediaNames := make(map[string]string, len(fetched))
	for i, s := range deck.Slides {
		num := i + 1
		rels := []relationship{
			{"rId1", relSlideLyt, "../slideLayouts/slideLayout1.xml"},
		}

		var img *placedImage
		if m, ok := fetched[s.ImageURL]; ok && s.ImageURL != "" {
			name, ok := mediaNames[s.ImageURL]
			if !ok {
				name = fmt.Sprintf("image%d.%s", len(mediaNames)+1, m.ext)
				mediaNames[s.ImageURL] = name
				if err := writePart(zw, "ppt/media/"+name, m.data); err != nil {
					return err
				}
			}
			rels = append(rels, relationship{"rId2", relImage, "../media/" + name})
			img = &placedImage{rel: "rId2", box: m.fit(imageBox)}
		}

		if s.SpeakerNotes != "" {
			rels = append(rels, relationship{"rId3", relNotesSlide, fmt.Sprintf("../notesSlides/notesSlide%d.xml", num)})
			if err := writePart(zw, fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", num), []byte(notesSlideXML(s.SpeakerNotes))); err != nil {
				return err
			}
			if err := writePart(zw, fmt.Sprintf("ppt/notesSlides/_rels/notesSlide%d.xml.rels", num), []byte(notesSlideRelsXML(num))); err != nil {
				return err
			}
		}

		if err := writePart(zw, fmt.Sprintf("ppt/slides/slide%d.xml", num), []byte(slideXML(s, theme, img))); err != nil {
			return err
		}
		if err := writePart(zw, fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", num), []byte(relsXML(rels))); err != nil {
			return err
		}
	}

	return nil
}

func writePart(zw *zip.Writer, name string, body []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create part %s: %w", name, err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("failed to write part %s: %w", name, err)
	}
	return nil
}

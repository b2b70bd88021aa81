package corpus

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"sponarchive/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDocLabel(t *testing.T) {
	assert.Equal(t, "krise-a-1",
		DocLabel("https://www.spiegel.de/politik/krise-a-1.html"))
	assert.Equal(t, "alt-b-2",
		DocLabel("https://www.spiegel.de/panorama/alt-b-2.htm"))
	assert.Equal(t, "ohne-endung",
		DocLabel("https://www.spiegel.de/ohne-endung"))
}

func TestDocText(t *testing.T) {
	rec := &model.ArticleRecord{
		ArchiveEntry: model.ArchiveEntry{ArchiveHeadline: "Überschrift"},
		Intro:        "Vorspann.",
		Paragraphs:   []string{"Eins.", "Zwei."},
	}
	assert.Equal(t, "Überschrift\n\nVorspann.\n\nEins.\n\nZwei.", DocText(rec))

	// a missing intro keeps its separator slot
	rec.Intro = ""
	assert.Equal(t, "Überschrift\n\n\n\nEins.\n\nZwei.", DocText(rec))
}

func TestBuild_SkipsErrorsAndDuplicates(t *testing.T) {
	records := []*model.ArticleRecord{
		{
			ArchiveEntry: model.ArchiveEntry{
				URL:             "https://www.spiegel.de/a-1.html",
				ArchiveHeadline: "A",
				Categ:           "Politik",
				PubDate:         "2020-01-01",
			},
			Author:     "Jane Doe",
			Intro:      "Vorspann.",
			Paragraphs: []string{"Text."},
		},
		{
			ArchiveEntry: model.ArchiveEntry{
				URL:          "https://www.spiegel.de/b-2.html",
				ErrorMessage: "response not OK",
			},
		},
		{
			// same label as the first record, published again another day
			ArchiveEntry: model.ArchiveEntry{
				URL:             "https://www.spiegel.de/kopie/a-1.html",
				ArchiveHeadline: "A (Kopie)",
				PubDate:         "2020-01-02",
			},
		},
	}

	c := Build(records, zap.NewNop())

	require.Len(t, c.Docs, 1)
	require.Len(t, c.Meta, 1)

	assert.Equal(t, "A\n\nVorspann.\n\nText.", c.Docs["a-1"])
	assert.Equal(t, Meta{Categ: "Politik", PubDate: "2020-01-01", Author: "Jane Doe"}, c.Meta["a-1"])
}

func TestCorpus_Write(t *testing.T) {
	c := &Corpus{
		Docs: map[string]string{"a-1": "Text."},
		Meta: map[string]Meta{"a-1": {Categ: "Politik", PubDate: "2020-01-01"}},
	}

	dir := t.TempDir()
	docsPath := filepath.Join(dir, "data", "corpus.json")
	metaPath := filepath.Join(dir, "data", "meta.json")
	require.NoError(t, c.Write(docsPath, metaPath, zap.NewNop()))

	docsData, err := os.ReadFile(docsPath)
	require.NoError(t, err)
	var docs map[string]string
	require.NoError(t, json.Unmarshal(docsData, &docs))
	assert.Equal(t, c.Docs, docs)

	metaData, err := os.ReadFile(metaPath)
	require.NoError(t, err)
	var meta map[string]Meta
	require.NoError(t, json.Unmarshal(metaData, &meta))
	assert.Equal(t, c.Meta, meta)
}

package main

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/bodul/crossword-builder/puzzle"
)

const analyzePrompt = `Analyse cette photo de grille de mots croisés.

Extrais la grille complète au format JSON suivant :
{
  "title": "<titre s'il est visible, sinon vide>",
  "width": <nombre de colonnes>,
  "height": <nombre de lignes>,
  "spacers": [<index des cases noires>],
  "answers": ["<lettre>", ...],
  "across-clues": ["<définition>", ...],
  "down-clues": ["<définition>", ...]
}

Règles :
- Les cases sont indexées ligne par ligne, de gauche à droite : index = ligne * width + colonne, en partant de 0.
- "spacers" liste toutes les cases noires.
- "answers" contient une entrée par case blanche, dans l'ordre des index, en sautant les cases noires. Mets "" si la case est vide.
- "across-clues" et "down-clues" suivent l'ordre des numéros imprimés dans la grille.
- Réponds UNIQUEMENT avec le JSON, sans commentaire ni markdown.`

// AnalyzeImage sends a photo of a crossword to Gemini and returns it as a
// puzzle document, ready for puzzle.Build.
func (g *GeminiClient) AnalyzeImage(ctx context.Context, imageData []byte, mimeType string) (*puzzle.Document, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName,
		[]*genai.Content{{
			Role: "user",
			Parts: []*genai.Part{
				{Text: analyzePrompt},
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: imageData}},
			},
		}},
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr(float32(0.1)),
			TopP:             genai.Ptr(float32(1)),
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("empty gemini response")
	}

	return parseDocument(text)
}

// parseDocument decodes a model response into a document and checks the
// fields the model tends to get wrong before the engine sees them.
func parseDocument(text string) (*puzzle.Document, error) {
	var doc puzzle.Document
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("parse document JSON: %w\nraw response: %s", err, text)
	}

	if doc.Width <= 0 || doc.Height <= 0 {
		return nil, fmt.Errorf("invalid grid: %dx%d", doc.Width, doc.Height)
	}
	// Pad with the blank squares the model skipped.
	for letters := doc.Width*doc.Height - len(doc.Spacers); len(doc.Answers) < letters; {
		doc.Answers = append(doc.Answers, "")
	}

	return &doc, nil
}

// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package fetcher

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gen2brain/go-fitz"
	"github.com/mnako/letters"
	"github.com/nguyenthenguyen/docx"
	"github.com/xuri/excelize/v2"

	"github.com/northbound/websearch/internal/apperr"
)

// extractPDF pulls page text out of PDF bytes using go-fitz (MuPDF).
// go-fitz only opens from a path, so the bytes are staged to a temp file.
func extractPDF(raw []byte) (string, error) {
	tmp, err := os.CreateTemp("", "websearch-fetch-*.pdf")
	if err != nil {
		return "", apperr.New(apperr.KindIO, "stage pdf temp file", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()
	if _, err := tmp.Write(raw); err != nil {
		return "", apperr.New(apperr.KindIO, "write pdf temp file", err)
	}
	tmp.Close()

	doc, err := fitz.New(tmp.Name())
	if err != nil {
		return "", apperr.New(apperr.KindParse, "open pdf", err)
	}
	defer doc.Close()

	var out strings.Builder
	numPages := doc.NumPage()
	for i := 0; i < numPages; i++ {
		pageText, err := doc.Text(i)
		if err != nil {
			continue
		}
		out.WriteString(pageText)
		if i < numPages-1 {
			out.WriteString("\n\n")
		}
	}

	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", apperr.New(apperr.KindParse, "no text extracted from pdf", nil)
	}
	return text, nil
}

// extractDOCX pulls paragraph text from a DOCX document's bytes.
func extractDOCX(raw []byte) (string, error) {
	tmp, err := os.CreateTemp("", "websearch-fetch-*.docx")
	if err != nil {
		return "", apperr.New(apperr.KindIO, "stage docx temp file", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()
	if _, err := tmp.Write(raw); err != nil {
		return "", apperr.New(apperr.KindIO, "write docx temp file", err)
	}
	tmp.Close()

	doc, err := docx.ReadDocxFile(tmp.Name())
	if err != nil {
		return "", apperr.New(apperr.KindParse, "open docx", err)
	}
	defer doc.Close()

	text := strings.TrimSpace(doc.Editable().GetContent())
	if text == "" {
		return "", apperr.New(apperr.KindParse, "no text extracted from docx", nil)
	}
	return text, nil
}

// extractExcel renders every sheet as a "Row N: Header: Value, ..." table
// rather than raw cell dumps, so chunking sees readable sentences.
func extractExcel(raw []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return "", apperr.New(apperr.KindParse, "open excel", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", apperr.New(apperr.KindParse, "no sheets found in excel file", nil)
	}

	var out strings.Builder
	for i, sheet := range sheets {
		if i > 0 {
			out.WriteString("\n\n")
		}
		fmt.Fprintf(&out, "Sheet: %s\n", sheet)

		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}
		headers := rows[0]
		for r := 1; r < len(rows); r++ {
			row := rows[r]
			var parts []string
			for c, header := range headers {
				if c >= len(row) {
					continue
				}
				value := strings.TrimSpace(row[c])
				if value == "" {
					continue
				}
				name := strings.TrimSpace(header)
				if name == "" {
					name = fmt.Sprintf("Column %d", c+1)
				}
				parts = append(parts, fmt.Sprintf("%s: %s", name, value))
			}
			if len(parts) > 0 {
				fmt.Fprintf(&out, "Row %d: %s\n", r+1, strings.Join(parts, ", "))
			}
		}
	}

	result := strings.TrimSpace(out.String())
	if result == "" {
		return "", apperr.New(apperr.KindParse, "no content extracted from excel file", nil)
	}
	return result, nil
}

// extractEML renders an email's headers and text body as a single document.
func extractEML(raw []byte) (string, error) {
	email, err := letters.ParseEmail(bytes.NewReader(raw))
	if err != nil {
		return "", apperr.New(apperr.KindParse, "parse eml", err)
	}

	var out strings.Builder
	if email.Headers.Subject != "" {
		fmt.Fprintf(&out, "Subject: %s\n", email.Headers.Subject)
	}
	if len(email.Headers.From) > 0 {
		from := email.Headers.From[0]
		if from.Name != "" {
			fmt.Fprintf(&out, "Sender: %s <%s>\n", from.Name, from.Address)
		} else {
			fmt.Fprintf(&out, "Sender: %s\n", from.Address)
		}
	}
	if !email.Headers.Date.IsZero() {
		fmt.Fprintf(&out, "Date: %s\n", email.Headers.Date.Format(time.RFC3339))
	}
	out.WriteString("\n")

	body := email.Text
	if body == "" {
		body = email.HTML
	}
	out.WriteString(body)

	result := strings.TrimSpace(out.String())
	if result == "" {
		return "", apperr.New(apperr.KindParse, "no content extracted from eml", nil)
	}
	return result, nil
}

package report

import (
	"io"
	"strconv"

	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"

	"NewsVerifier/internal/domain"
)

// titleWidth is measured in terminal cells; Hangul takes two.
const titleWidth = 48

// WriteRecentTable renders stored predictions for humans.
func WriteRecentTable(w io.Writer, predictions []domain.StoredPrediction) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Article", "Title", "Real", "Fake", "Created"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, p := range predictions {
		table.Append([]string{
			strconv.FormatInt(p.ArticleID, 10),
			runewidth.Truncate(p.Title, titleWidth, "…"),
			strconv.FormatFloat(p.RealProbability, 'f', 6, 64),
			strconv.FormatFloat(p.FakeProbability, 'f', 6, 64),
			p.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		})
	}

	table.Render()
}

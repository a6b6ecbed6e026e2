package notionsync

import (
	"time"

	"github.com/jomei/notionapi"

	"github.com/nischint/nischint/internal/bigquery"
)

// TransactionToNotionProperties converts a transaction row to Notion
// properties for the Transactions database.
func TransactionToNotionProperties(tx *bigquery.TransactionRow) notionapi.Properties {
	props := notionapi.Properties{
		"Transaction ID": titleProperty(tx.TransactionID),
		"Amount": notionapi.NumberProperty{
			Number: float64(tx.Amount),
		},
		"Type": notionapi.SelectProperty{
			Select: notionapi.Option{Name: tx.Kind},
		},
		"Date": dateProperty(tx.CreatedTS),
		"Business": notionapi.CheckboxProperty{
			Checkbox: tx.IsBusiness,
		},
	}

	if tx.Category != "" {
		props["Category"] = notionapi.SelectProperty{
			Select: notionapi.Option{Name: tx.Category},
		}
	}
	if tx.Merchant.Valid && tx.Merchant.StringVal != "" {
		props["Merchant"] = richTextProperty(tx.Merchant.StringVal)
	}
	if tx.Source != "" {
		props["Source"] = notionapi.SelectProperty{
			Select: notionapi.Option{Name: tx.Source},
		}
	}

	return props
}

// GoalToNotionProperties converts a goal row to Notion properties for
// the Goals database.
func GoalToNotionProperties(g *bigquery.GoalRow) notionapi.Properties {
	props := notionapi.Properties{
		"Goal ID": titleProperty(g.GoalID),
		"Name":    richTextProperty(g.Name),
		"Target": notionapi.NumberProperty{
			Number: float64(g.TargetAmount),
		},
		"Saved": notionapi.NumberProperty{
			Number: float64(g.SavedAmount),
		},
		"Active": notionapi.CheckboxProperty{
			Checkbox: g.IsActive,
		},
	}

	if g.Deadline.Valid {
		deadline := time.Date(
			g.Deadline.Date.Year,
			time.Month(g.Deadline.Date.Month),
			g.Deadline.Date.Day,
			0, 0, 0, 0, time.UTC,
		)
		props["Deadline"] = dateProperty(deadline)
	}

	return props
}

// extractRowID pulls the BigQuery row ID back out of a page's title
// property. Returns "" when the page has no recognizable title.
func extractRowID(page notionapi.Page, titleName string) string {
	prop, ok := page.Properties[titleName]
	if !ok {
		return ""
	}
	title, ok := prop.(*notionapi.TitleProperty)
	if !ok || len(title.Title) == 0 {
		return ""
	}
	return title.Title[0].PlainText
}

func titleProperty(content string) notionapi.TitleProperty {
	return notionapi.TitleProperty{
		Title: []notionapi.RichText{
			{
				Type: notionapi.ObjectTypeText,
				Text: &notionapi.Text{Content: content},
			},
		},
	}
}

func richTextProperty(content string) notionapi.RichTextProperty {
	return notionapi.RichTextProperty{
		RichText: []notionapi.RichText{
			{
				Type: notionapi.ObjectTypeText,
				Text: &notionapi.Text{Content: content},
			},
		},
	}
}

func dateProperty(t time.Time) notionapi.DateProperty {
	d := notionapi.Date(t)
	return notionapi.DateProperty{
		Date: &notionapi.DateObject{Start: &d},
	}
}

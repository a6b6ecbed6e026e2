package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"
)

// receiptPrompt instructs the model to read a single receipt image and
// return one strict JSON object describing the purchase.
const receiptPrompt = "You are a receipt parser for an Indian personal finance app.\n\n" +
	"Task:\n" +
	"- Read the attached receipt image.\n" +
	"- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n" +
	"- Output a single JSON object.\n\n" +
	"The object must have these fields:\n" +
	"- \"merchant\": string or null (shop or vendor name)\n" +
	"- \"amount\": number (the grand total paid, in rupees, always positive)\n" +
	"- \"kind\": string, always \"expense\"\n" +
	"- \"category\": string (one of: food, transport, shopping, bills, health, entertainment, business, other)\n" +
	"- \"is_business\": boolean (true if this looks like a business purchase, e.g. fuel, stock, supplies)\n" +
	"- \"raw_text\": string (a one-line description of the purchase)\n\n" +
	"Rules:\n" +
	"- If the total cannot be determined, set \"amount\" to 0.\n" +
	"- If the merchant cannot be determined, set \"merchant\" to null.\n\n" +
	"Return ONLY valid raw JSON.\n" +
	"Do NOT wrap the response in code fences.\n" +
	"Do NOT use ```json or any Markdown.\n" +
	"Output must begin with \"{\" and end with \"}\".\n"

// ParseReceipt sends the receipt image to Gemini and returns the parsed
// JSON output as a generic map. It implements pipeline.ReceiptParser.
func (s *Service) ParseReceipt(ctx context.Context, imageBytes []byte, mimeType string) (map[string]interface{}, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: receiptPrompt},
				{
					InlineData: &genai.Blob{
						MIMEType: mimeType,
						Data:     imageBytes,
					},
				},
			},
		},
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("ParseReceipt: generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("ParseReceipt: empty response from model")
	}

	clean := cleanModelJSON(rawText, "{", "}")

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return nil, fmt.Errorf("ParseReceipt: unmarshal JSON: %w\nraw response: %s", err, rawText)
	}

	return parsed, nil
}

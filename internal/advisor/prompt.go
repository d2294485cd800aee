package advisor

import "fmt"

const designAdvicePrompt = `You are an expert interior designer. A customer is looking for furniture advice for their home. They described their vibe as: "%s".
Give them 3-4 specific styling tips and suggest what kind of furniture colors and materials (e.g. velvet, oak, industrial metal) would suit them best. Keep it encouraging and professional. Limit to 150 words.`

const locationPrompt = `Find and describe the Lumina Home flagship furniture showroom area in San Francisco Design District. Provide details about the vibe of the neighborhood and why it's a great place to visit for furniture enthusiasts.`

// Fallback texts returned when the model cannot be reached or returns nothing usable
const (
	FallbackAdvice = "I'm having trouble visualizing that right now, but I bet it will look great! Try searching our Living Room collection for inspiration."

	FallbackLocation = "Our flagship showroom is located in the heart of the San Francisco Design District, surrounded by the city's most prestigious galleries and design studios."

	// used when a grounded response carries no text
	shortLocation = "Our flagship showroom is located in the heart of the San Francisco Design District."

	defaultLinkTitle = "View on Maps"
)

func buildDesignAdvicePrompt(vibe string) string {
	return fmt.Sprintf(designAdvicePrompt, vibe)
}

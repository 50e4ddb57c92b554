package processsuggestion

import (
	"fmt"
	"strings"

	"dining-concierge/internal/models"
)

func formatSubject(cuisine string) string {
	return fmt.Sprintf("Your %s Restaurant Suggestions!", cuisine)
}

func formatBody(req *suggestionRequest, restaurants []*models.Restaurant) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello! Here are my %s restaurant suggestions for %s people, for today at %s:\n\n",
		req.Cuisine, req.NumberOfPeople, req.DiningTime)

	for i, r := range restaurants {
		name, address := r.Name, r.Address
		if name == "" {
			name = "Unknown"
		}
		if address == "" {
			address = "N/A"
		}
		fmt.Fprintf(&b, "%d. %s, located at %s\n", i+1, name, address)
	}

	b.WriteString("\nEnjoy your meal!")
	return b.String()
}

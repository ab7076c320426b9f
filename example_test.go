package canvass_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/canvass"
	"github.com/aretw0/canvass/pkg/adapters/memory"
	"github.com/aretw0/canvass/pkg/domain"
)

// ExampleNew_memory runs a two-question survey held in memory.
func ExampleNew_memory() {
	campaigns := memory.NewCampaigns(&domain.CampaignRecord{
		ID: "census",
		Questions: []any{
			map[string]any{"id": 1, "prompt": "Do you vote?", "options": []any{"Yes", "No"}},
			map[string]any{"id": 2, "prompt": "Your city?"},
		},
	})

	engine, err := canvass.New("", canvass.WithCampaignStore(campaigns))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	for _, msg := range []string{"start", "a", "Recife"} {
		reply, err := engine.Process(ctx, "5581999990000", "census", msg)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(reply.Text)
		fmt.Println("--")
	}
	// Output:
	// Do you vote?
	//
	// a) Yes
	// b) No
	// --
	// ✔️ You chose: Yes
	//
	// Your city?
	// --
	// Thank you for taking part!
	// --
}

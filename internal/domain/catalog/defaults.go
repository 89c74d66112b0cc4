package catalog

// Default returns the built-in resource catalog.
// Hardness grows with depth: a 100-efficiency worker yields 10 units/tick of stone
// but only 0.2 units/tick of orichalcum.
func Default() *Catalog {
	return MustNew([]ResourceDescriptor{
		{ID: "stone", Name: "Stone", Hardness: 1, SlotUnlockLevel: [SlotCount]int{1, 2}, ReservoirCapacity: 200},
		{ID: "copper", Name: "Copper", Hardness: 2, SlotUnlockLevel: [SlotCount]int{1, 3}, ReservoirCapacity: 250},
		{ID: "iron", Name: "Iron", Hardness: 4, SlotUnlockLevel: [SlotCount]int{2, 4}, ReservoirCapacity: 300},
		{ID: "silver", Name: "Silver", Hardness: 8, SlotUnlockLevel: [SlotCount]int{3, 5}, ReservoirCapacity: 350},
		{ID: "gold", Name: "Gold", Hardness: 15, SlotUnlockLevel: [SlotCount]int{4, 6}, ReservoirCapacity: 400},
		{ID: "mithril", Name: "Mithril", Hardness: 30, SlotUnlockLevel: [SlotCount]int{5, 7}, ReservoirCapacity: 450},
		{ID: "orichalcum", Name: "Orichalcum", Hardness: 50, SlotUnlockLevel: [SlotCount]int{6, 8}, ReservoirCapacity: 500},
	})
}

package entity

type Store struct {
	ID   uint64
	Name string
}

type Item struct {
	ID      uint64
	Name    string
	Price   float64
	StoreID uint64
}

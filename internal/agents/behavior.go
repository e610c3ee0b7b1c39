package agents

// OpenStore is the producer routine run once per day: sense demand and
// competitors, price, plan, produce, then check coherence.
func (a *Agent) OpenStore() error {
	a.SeeDemandAndCompetitors()
	a.SetPrice(a.Percentile)
	a.SetQuantity()
	a.Produce()
	return a.coherenceCheck("open_store")
}

// ShoppingRoutine is the consumer routine: find suppliers, buy the most
// wanted affordable unit, check coherence and, when reset is set, start a new
// week of needs.
func (a *Agent) ShoppingRoutine(reset bool) (bought bool, err error) {
	a.SeeSupply()
	_, bought = a.BuyAsNeeded()
	err = a.coherenceCheck("shopping")

	if reset {
		a.ResetNeeds()
	}
	return bought, err
}

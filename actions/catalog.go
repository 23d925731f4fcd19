package actions

// DefaultRegistry wires every supported action kind onto the given pending
// store. Registration order is the order the kinds are advertised in.
func DefaultRegistry(pending PendingStore) *Registry {
	r := NewRegistry(pending)
	registerFarmHandlers(r)
	registerShedHandlers(r)
	registerGeneticLineHandlers(r)
	registerBreederBatchHandlers(r)
	registerBroilerBatchHandlers(r)
	registerTraceabilityHandlers(r)
	registerFollowUpHandlers(r)
	registerStandardCurveHandlers(r)
	return r
}

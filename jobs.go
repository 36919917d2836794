package dynft

func (s *Dynft) runJobs() {
	s.scheduler.Every(1).Minute().SingletonMode().Do(s.updateCollectionStats)
	s.scheduler.Every(10).Minute().SingletonMode().Do(s.logCacheStats)

	s.scheduler.StartAsync()
}

func (s *Dynft) logCacheStats() {
	log.Info("blob cache stats", "entries", s.localCache.Cache.Len())
}

// updateCollectionStats refreshes the per-collection gauges from the
// accounting db. Display only; the ledger remains the source of truth.
func (s *Dynft) updateCollectionStats() {
	mints, err := s.wdb.GetMintStats()
	if err != nil {
		log.Error("get mint stats", "err", err)
		return
	}
	events, err := s.wdb.GetEventStats()
	if err != nil {
		log.Error("get event stats", "err", err)
		return
	}
	eventsByColl := make(map[string]int64, len(events))
	for _, st := range events {
		eventsByColl[st.CollectionId] = st.Events
	}
	for _, st := range mints {
		st.Events = eventsByColl[st.CollectionId]
		metricCollectionStat(st)
	}
}

// Package services contains the core business logic of the
// application, free of transport and provider concerns.
//
// The coverage pipeline runs in three stages per category: the scorer
// ranks corpus units against the category definition, the selector
// packs the best units into the evaluation budget, and the analyzer
// orchestrates evaluation of the selected content and assembles the
// final report. Scoring and selection are pure and deterministic;
// only the analyzer touches the network, through the Evaluator port.
package services

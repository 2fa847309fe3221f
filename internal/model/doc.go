// Package model defines the data structures shared between the scraper core
// and the report writers. The central type is PageResult, which holds every
// structured facet extracted from a single fetched page.
package model

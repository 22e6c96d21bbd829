// Package sitemapgen crawls a single website from a root address and
// produces a sitemap of its same-origin pages, optionally annotated with
// AI-generated summaries, together with a log of recoverable issues.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, goquery/, gemini/).
package sitemapgen

// Package scanner walks an audiobook library tree and decides, from
// filenames alone, which directories hold exactly one logical book.
//
// Classification is an ordered short-circuit rule list: a lone audio file is
// trivially a single work; more than one .m4b container forces a mixed
// verdict; otherwise a shared literal prefix, uniform track numbering, a
// "track" token, or the folder name echoed in every file accepts the folder.
// Everything else is treated as mixed content and journaled, never enriched.
//
// The scan limit bounds directories examined, not tasks produced. This is a
// deliberate policy: the limit caps scan effort for incremental runs, so a
// run that hits mostly mixed folders still stops at the limit.
package scanner

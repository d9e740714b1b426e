package dedupe

// Package dedupe provides shared singleflight groups used to deduplicate
// concurrent contract reads. Every battle's enemy phase asks for attack
// parameters; when several battles resolve at once only one RPC call runs
// and the others wait for its result.

import "golang.org/x/sync/singleflight"

// ContractReads deduplicates view calls keyed by "<contract>:<method>"
// (e.g. "0xabc...:getAttackParameters").
var ContractReads singleflight.Group

// WalletReads deduplicates wallet activity lookups keyed by the lowercase
// address.
var WalletReads singleflight.Group

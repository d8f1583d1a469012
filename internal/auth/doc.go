// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth supplies the identity gate in front of the synchronizer.
//
// The gate answers two questions: "who is signed in, if anyone?" and "is the
// answer still loading?". While loading is true the synchronizer does
// nothing; when identity transitions to none the synchronizer fully resets.
// How the identity came to exist (OAuth, SSO, a provisioning script) is
// outside this repository's scope — the gate just reads and stores it.
package auth

// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package steam

// OwnedGamesResponse wraps IPlayerService/GetOwnedGames.
type OwnedGamesResponse struct {
	Response OwnedGames `json:"response"`
}

// OwnedGames is one player's library listing.
type OwnedGames struct {
	GameCount int         `json:"game_count"`
	Games     []OwnedGame `json:"games"`
}

// OwnedGame is one library entry. PlaytimeForever is in minutes;
// RtimeLastPlayed is a Unix timestamp, zero when never played.
type OwnedGame struct {
	AppID           int64  `json:"appid"`
	Name            string `json:"name"`
	PlaytimeForever int    `json:"playtime_forever"`
	RtimeLastPlayed int64  `json:"rtime_last_played"`
	ImgIconURL      string `json:"img_icon_url"`
}

// PlayerSummariesResponse wraps ISteamUser/GetPlayerSummaries.
type PlayerSummariesResponse struct {
	Response PlayerSummaries `json:"response"`
}

// PlayerSummaries is the profile listing for the requested account ids.
type PlayerSummaries struct {
	Players []PlayerSummary `json:"players"`
}

// PlayerSummary is one account profile.
type PlayerSummary struct {
	SteamID      string `json:"steamid"`
	PersonaName  string `json:"personaname"`
	AvatarMedium string `json:"avatarmedium"`
}

// CurrentPlayersResponse wraps ISteamUserStats/GetNumberOfCurrentPlayers.
// Result is 1 on success; any other value means the count is unavailable.
type CurrentPlayersResponse struct {
	Response CurrentPlayers `json:"response"`
}

// CurrentPlayers is the live concurrent-player count for one app.
type CurrentPlayers struct {
	Result      int `json:"result"`
	PlayerCount int `json:"player_count"`
}

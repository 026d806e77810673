package service

import (
	"context"
	"testing"

	"github.com/creatorpulse/analytics-api/internal/models"
	"github.com/creatorpulse/analytics-api/internal/transfer"
)

func TestArtistCreateAndUpdate(t *testing.T) {
	ar := newFakeArtistRepo()
	as := NewArtistService(ar, newFakePostRepo(), newFakeSnapshotRepo(), newFakeEarningsRepo())
	ctx := context.Background()

	id, err := as.Create(ctx, &transfer.ArtistCreation{Name: "Ada", RoyaltyRate: 80})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	artist, err := as.Get(ctx, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if artist.Status != models.ArtistStatusActive {
		t.Errorf("status = %q, want active", artist.Status)
	}

	rate := 75.5
	if err := as.Update(ctx, id, &transfer.ArtistUpdate{RoyaltyRate: &rate}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	artist, _ = as.Get(ctx, id)
	if artist.RoyaltyRate != 75.5 {
		t.Errorf("royalty rate = %v, want 75.5", artist.RoyaltyRate)
	}
	if artist.Name != "Ada" {
		t.Errorf("partial update clobbered name: %q", artist.Name)
	}

	bad := 120.0
	if err := as.Update(ctx, id, &transfer.ArtistUpdate{RoyaltyRate: &bad}); err == nil {
		t.Error("expected error for royalty rate above 100")
	}
}

func TestArtistCreateRejectsBadRate(t *testing.T) {
	as := NewArtistService(newFakeArtistRepo(), newFakePostRepo(), newFakeSnapshotRepo(), newFakeEarningsRepo())

	if _, err := as.Create(context.Background(), &transfer.ArtistCreation{Name: "Ada", RoyaltyRate: 101}); err == nil {
		t.Error("expected error for royalty rate above 100")
	}
}

func TestArtistDeleteArchivesWithHistory(t *testing.T) {
	ar := newFakeArtistRepo()
	pr := newFakePostRepo()
	as := NewArtistService(ar, pr, newFakeSnapshotRepo(), newFakeEarningsRepo())
	ctx := context.Background()

	withPosts, _ := as.Create(ctx, &transfer.ArtistCreation{Name: "Busy", RoyaltyRate: 50})
	empty, _ := as.Create(ctx, &transfer.ArtistCreation{Name: "Idle", RoyaltyRate: 50})
	pr.countByArtist = map[int64]int{withPosts: 3}

	archived, err := as.Delete(ctx, withPosts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !archived {
		t.Error("artist with posts should be archived, not deleted")
	}
	if ar.artists[withPosts].Status != models.ArtistStatusArchived {
		t.Errorf("status = %q, want archived", ar.artists[withPosts].Status)
	}

	archived, err = as.Delete(ctx, empty)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if archived {
		t.Error("artist without posts should be deleted outright")
	}
	if _, ok := ar.artists[empty]; ok {
		t.Error("artist row still present after delete")
	}
}

func TestArtistEarningsLifetime(t *testing.T) {
	ar := newFakeArtistRepo()
	sr := newFakeSnapshotRepo()
	as := NewArtistService(ar, newFakePostRepo(), sr, newFakeEarningsRepo())
	ctx := context.Background()

	id, _ := as.Create(ctx, &transfer.ArtistCreation{Name: "Ada", RoyaltyRate: 80})
	sr.lifetimeEarnings = map[int64]int64{id: 125000} // $1,250.00

	resp, err := as.Earnings(ctx, id, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.TotalEarningsCents != 125000 {
		t.Errorf("total = %d, want 125000", resp.TotalEarningsCents)
	}
	if resp.ArtistShareCents != 100000 || resp.PlatformFeeCents != 25000 {
		t.Errorf("split = %d/%d, want 100000/25000", resp.ArtistShareCents, resp.PlatformFeeCents)
	}
}

func TestArtistEarningsWindow(t *testing.T) {
	ar := newFakeArtistRepo()
	sr := newFakeSnapshotRepo()
	as := NewArtistService(ar, newFakePostRepo(), sr, newFakeEarningsRepo())
	ctx := context.Background()

	id, _ := as.Create(ctx, &transfer.ArtistCreation{Name: "Ada", RoyaltyRate: 50})
	sr.earningsAsOf = map[string]int64{
		asOfKey(id, mustDate(t, "2025-06-30")): 90000,
		asOfKey(id, mustDate(t, "2025-05-31")): 40000, // day before the window opens
	}

	resp, err := as.Earnings(ctx, id, "2025-06-01", "2025-06-30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.TotalEarningsCents != 50000 {
		t.Errorf("windowed total = %d, want 50000", resp.TotalEarningsCents)
	}
	if resp.ArtistShareCents != 25000 {
		t.Errorf("share = %d, want 25000", resp.ArtistShareCents)
	}
}

func TestArtistEarningsUnknownArtist(t *testing.T) {
	as := NewArtistService(newFakeArtistRepo(), newFakePostRepo(), newFakeSnapshotRepo(), newFakeEarningsRepo())

	if _, err := as.Earnings(context.Background(), 42, "", ""); err == nil {
		t.Error("expected error for unknown artist")
	}
}

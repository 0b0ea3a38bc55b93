// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package playlist

const sampleBucket = "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/"

// Defaults is the playlist shown when the config doesn't provide one.
func Defaults() []Entry {
	return []Entry{
		{
			ID:        "1",
			Title:     "Exploring the deep sea: coral reef ecosystems",
			Duration:  "04:15",
			Thumbnail: "https://images.unsplash.com/photo-1559827260-dc66d52bef19?w=200&h=120&fit=crop",
			URL:       sampleBucket + "BigBuckBunny.mp4",
			Kind:      KindStream,
		},
		{
			ID:        "2",
			Title:     "Future cityscapes: smart traffic",
			Duration:  "03:30",
			Thumbnail: "https://images.unsplash.com/photo-1449824913935-59a10b8d2000?w=200&h=120&fit=crop",
			URL:       sampleBucket + "ElephantsDream.mp4",
			Kind:      KindStream,
		},
		{
			ID:        "3",
			Title:     "Ancient civilisations: pyramid construction",
			Duration:  "05:00",
			Thumbnail: "https://images.unsplash.com/photo-1539650116574-75c0c6d73c6e?w=200&h=120&fit=crop",
			URL:       sampleBucket + "ForBiggerBlazes.mp4",
			Kind:      KindStream,
		},
		{
			ID:        "4",
			Title:     "A new era of space exploration: landing on Mars",
			Duration:  "06:20",
			Thumbnail: "https://images.unsplash.com/photo-1446776877081-d282a0f896e2?w=200&h=120&fit=crop",
			URL:       sampleBucket + "ForBiggerEscapes.mp4",
			Kind:      KindStream,
		},
		{
			ID:        "5",
			Title:     "Healthy living: a balanced diet",
			Duration:  "02:45",
			Thumbnail: "https://images.unsplash.com/photo-1490645935967-10de6ba17061?w=200&h=120&fit=crop",
			URL:       sampleBucket + "ForBiggerFun.mp4",
			Kind:      KindStream,
		},
	}
}

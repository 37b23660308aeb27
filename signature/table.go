package signature

// builtin contains the built-in signatures.
// Ordered by specificity where prefixes overlap (most specific first).
var builtin = Table{
	// Images
	{Hex: "89504E47", Type: "PNG", Category: "Image", Description: "Portable Network Graphics", Extensions: []string{".png"}},
	{Hex: "FFD8FFE0", Type: "JPEG", Category: "Image", Description: "JPEG Image (JFIF)", Extensions: []string{".jpg", ".jpeg"}},
	{Hex: "FFD8FFE1", Type: "JPEG", Category: "Image", Description: "JPEG Image (EXIF)", Extensions: []string{".jpg", ".jpeg"}},
	{Hex: "FFD8FFDB", Type: "JPEG", Category: "Image", Description: "JPEG Image", Extensions: []string{".jpg", ".jpeg"}},
	{Hex: "47494638", Type: "GIF", Category: "Image", Description: "Graphics Interchange Format", Extensions: []string{".gif"}},
	{Hex: "424D", Type: "BMP", Category: "Image", Description: "Bitmap Image", Extensions: []string{".bmp"}},
	{Hex: "38425053", Type: "PSD", Category: "Image", Description: "Adobe Photoshop Document", Extensions: []string{".psd"}},
	{Hex: "49492A00", Type: "TIFF", Category: "Image", Description: "Tagged Image File Format (LE)", Extensions: []string{".tiff", ".tif"}},
	{Hex: "4D4D002A", Type: "TIFF", Category: "Image", Description: "Tagged Image File Format (BE)", Extensions: []string{".tiff", ".tif"}},
	{Hex: "00000100", Type: "ICO", Category: "Image", Description: "Windows Icon", Extensions: []string{".ico"}},
	{Hex: "00000200", Type: "CUR", Category: "Image", Description: "Windows Cursor", Extensions: []string{".cur"}},
	{Hex: "52494646........57454250", Type: "WEBP", Category: "Image", Description: "WebP Image", Extensions: []string{".webp"}},

	// Documents
	{Hex: "25504446", Type: "PDF", Category: "Document", Description: "Portable Document Format", Extensions: []string{".pdf"}},
	{Hex: "D0CF11E0A1B11AE1", Type: "DOC/XLS/PPT", Category: "Document", Description: "Microsoft Office Legacy", Extensions: []string{".doc", ".xls", ".ppt"}},
	{Hex: "504B0304", Type: "ZIP/DOCX/XLSX", Category: "Archive", Description: "ZIP Archive or Office Open XML", Extensions: []string{".zip", ".docx", ".xlsx", ".pptx", ".odt", ".jar", ".apk"}},
	{Hex: "504B0506", Type: "ZIP", Category: "Archive", Description: "ZIP Archive (empty)", Extensions: []string{".zip"}},
	{Hex: "504B0708", Type: "ZIP", Category: "Archive", Description: "ZIP Archive (spanned)", Extensions: []string{".zip"}},
	{Hex: "7B5C727466", Type: "RTF", Category: "Document", Description: "Rich Text Format", Extensions: []string{".rtf"}},

	// Archives
	{Hex: "52617221", Type: "RAR", Category: "Archive", Description: "RAR Archive", Extensions: []string{".rar"}},
	{Hex: "377ABCAF271C", Type: "7Z", Category: "Archive", Description: "7-Zip Archive", Extensions: []string{".7z"}},
	{Hex: "1F8B", Type: "GZIP", Category: "Archive", Description: "GZIP Compressed", Extensions: []string{".gz", ".gzip", ".tgz"}},
	{Hex: "425A68", Type: "BZ2", Category: "Archive", Description: "BZIP2 Compressed", Extensions: []string{".bz2"}},
	{Hex: "FD377A585A00", Type: "XZ", Category: "Archive", Description: "XZ Compressed", Extensions: []string{".xz"}},
	{Hex: "504B", Type: "ZIP", Category: "Archive", Description: "ZIP Archive", Extensions: []string{".zip", ".jar", ".apk"}},
	{Hex: "1F9D", Type: "Z", Category: "Archive", Description: "LZW Compressed", Extensions: []string{".z"}},
	{Hex: "1FA0", Type: "Z", Category: "Archive", Description: "LZH Compressed", Extensions: []string{".z"}},

	// Audio
	{Hex: "494433", Type: "MP3", Category: "Audio", Description: "MP3 Audio (ID3)", Extensions: []string{".mp3"}},
	{Hex: "FFFB", Type: "MP3", Category: "Audio", Description: "MP3 Audio", Extensions: []string{".mp3"}},
	{Hex: "FFF3", Type: "MP3", Category: "Audio", Description: "MP3 Audio", Extensions: []string{".mp3"}},
	{Hex: "FFF2", Type: "MP3", Category: "Audio", Description: "MP3 Audio", Extensions: []string{".mp3"}},
	{Hex: "664C6143", Type: "FLAC", Category: "Audio", Description: "Free Lossless Audio Codec", Extensions: []string{".flac"}},
	{Hex: "4F676753", Type: "OGG", Category: "Audio", Description: "OGG Vorbis", Extensions: []string{".ogg", ".oga"}},
	{Hex: "52494646........57415645", Type: "WAV", Category: "Audio", Description: "Waveform Audio", Extensions: []string{".wav"}},

	// Video
	{Hex: "........66747970", Type: "MP4", Category: "Video", Description: "MPEG-4 Container", Extensions: []string{".mp4", ".m4v", ".m4a", ".mov"}},
	{Hex: "1A45DFA3", Type: "MKV/WEBM", Category: "Video", Description: "Matroska/WebM Video", Extensions: []string{".mkv", ".webm"}},
	{Hex: "464C56", Type: "FLV", Category: "Video", Description: "Flash Video", Extensions: []string{".flv"}},
	{Hex: "000001BA", Type: "MPEG", Category: "Video", Description: "MPEG Video", Extensions: []string{".mpg", ".mpeg"}},
	{Hex: "000001B3", Type: "MPEG", Category: "Video", Description: "MPEG Video", Extensions: []string{".mpg", ".mpeg"}},
	{Hex: "30264032", Type: "WMV", Category: "Video", Description: "Windows Media Video", Extensions: []string{".wmv", ".wma", ".asf"}},
	{Hex: "52494646........41564920", Type: "AVI", Category: "Video", Description: "Audio Video Interleave", Extensions: []string{".avi"}},

	// Executables
	{Hex: "4D5A", Type: "EXE/DLL", Category: "Executable", Description: "Windows Executable", Extensions: []string{".exe", ".dll", ".sys"}},
	{Hex: "7F454C46", Type: "ELF", Category: "Executable", Description: "Linux Executable"},
	{Hex: "CAFEBABE", Type: "CLASS/MACH-O", Category: "Executable", Description: "Java Class or macOS", Extensions: []string{".class"}},
	{Hex: "FEEDFACE", Type: "MACH-O", Category: "Executable", Description: "macOS Executable (32-bit)"},
	{Hex: "FEEDFACF", Type: "MACH-O", Category: "Executable", Description: "macOS Executable (64-bit)"},
	{Hex: "CEFAEDFE", Type: "MACH-O", Category: "Executable", Description: "macOS Executable (32-bit, LE)"},
	{Hex: "CFFAEDFE", Type: "MACH-O", Category: "Executable", Description: "macOS Executable (64-bit, LE)"},
	{Hex: "6465780A", Type: "DEX", Category: "Executable", Description: "Android Dalvik Executable", Extensions: []string{".dex"}},

	// Database
	{Hex: "53514C697465", Type: "SQLITE", Category: "Database", Description: "SQLite Database", Extensions: []string{".db", ".sqlite", ".sqlite3"}},

	// Web/Code
	{Hex: "3C3F786D6C", Type: "XML", Category: "Data", Description: "XML Document", Extensions: []string{".xml", ".svg"}},
	{Hex: "3C21444F43545950", Type: "HTML", Category: "Web", Description: "HTML Document", Extensions: []string{".html", ".htm"}},
	{Hex: "3C68746D6C", Type: "HTML", Category: "Web", Description: "HTML Document", Extensions: []string{".html", ".htm"}},
	{Hex: "7B", Type: "JSON", Category: "Data", Description: "JSON Data (probable)", Extensions: []string{".json"}},
	{Hex: "EFBBBF", Type: "UTF8-BOM", Category: "Text", Description: "UTF-8 with BOM", Extensions: []string{".txt", ".csv", ".md"}},
	{Hex: "FFFE", Type: "UTF16-LE", Category: "Text", Description: "UTF-16 Little Endian", Extensions: []string{".txt"}},
	{Hex: "FEFF", Type: "UTF16-BE", Category: "Text", Description: "UTF-16 Big Endian", Extensions: []string{".txt"}},

	// Fonts
	{Hex: "00010000", Type: "TTF", Category: "Font", Description: "TrueType Font", Extensions: []string{".ttf"}},
	{Hex: "4F54544F", Type: "OTF", Category: "Font", Description: "OpenType Font", Extensions: []string{".otf"}},
	{Hex: "774F4646", Type: "WOFF", Category: "Font", Description: "Web Open Font Format", Extensions: []string{".woff"}},
	{Hex: "774F4632", Type: "WOFF2", Category: "Font", Description: "Web Open Font Format 2", Extensions: []string{".woff2"}},

	// Other
	{Hex: "25215053", Type: "PS", Category: "Document", Description: "PostScript", Extensions: []string{".ps", ".eps"}},
	{Hex: "4344303031", Type: "ISO", Category: "Disk", Description: "ISO Disk Image", Extensions: []string{".iso"}},
}
